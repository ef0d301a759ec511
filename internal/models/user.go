package models

// User is a users row. The encryption key is not part of the row: it is
// derived from the password on every login and only ever lives in an Auth.
type User struct {
	ID       string
	Username string
	Salt     []byte
	Verifier []byte
	Created  int64
}

// Auth is the resolved (user, encryption key) pair available to services for
// the duration of one operation. Key is never persisted.
type Auth struct {
	UserID   string
	Username string
	Key      string
}

// RawSetting is a settings row as stored; Value is ciphertext over a JSON
// encoding of the setting value.
type RawSetting struct {
	ID      string
	UserID  string
	Created int64
	Key     string
	Value   string
}

// Setting is a decrypted setting.
type Setting struct {
	ID      string
	Created int64
	Key     string
	Value   any
}
