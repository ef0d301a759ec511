package models

// RawLabel is a labels row as stored; Name is ciphertext.
type RawLabel struct {
	ID      string
	UserID  string
	Name    string
	Color   string
	Created int64
}

// Label is a decrypted label.
type Label struct {
	ID      string
	Name    string
	Color   string
	Created int64
}

// RawEvent is an events row as stored; Name is ciphertext.
type RawEvent struct {
	ID       string
	UserID   string
	Name     string
	Start    int64
	End      int64
	TzOffset float64
	LabelID  *string
	Created  int64
}

// Event is a decrypted event with its label resolved.
type Event struct {
	ID       string
	Name     string
	Start    int64
	End      int64
	TzOffset float64
	Label    *Label
	Created  int64
}
