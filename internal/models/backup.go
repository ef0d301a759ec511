package models

// Backup is the decrypted export payload covering all of one user's data.
// It is serialized to JSON and encrypted as a single opaque string for
// download/upload and for key rotation.
type Backup struct {
	Entries  []BackupEntry   `json:"entries"`
	Labels   []BackupLabel   `json:"labels"`
	Events   []BackupEvent   `json:"events"`
	Settings []BackupSetting `json:"settings"`
	Created  int64           `json:"created"`
}

type BackupEntry struct {
	Title           string            `json:"title"`
	Body            string            `json:"body"`
	Created         int64             `json:"created"`
	CreatedTzOffset float64           `json:"createdTzOffset"`
	Deleted         *int64            `json:"deleted,omitempty"`
	Pinned          *int64            `json:"pinned,omitempty"`
	LabelID         *string           `json:"labelId,omitempty"`
	Latitude        *float64          `json:"latitude,omitempty"`
	Longitude       *float64          `json:"longitude,omitempty"`
	AgentData       string            `json:"agentData,omitempty"`
	WordCount       int               `json:"wordCount"`
	Edits           []BackupEntryEdit `json:"edits,omitempty"`
}

type BackupEntryEdit struct {
	OldTitle        string   `json:"oldTitle"`
	OldBody         string   `json:"oldBody"`
	OldLabelID      *string  `json:"oldLabelId,omitempty"`
	Created         int64    `json:"created"`
	CreatedTzOffset float64  `json:"createdTzOffset"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	AgentData       string   `json:"agentData,omitempty"`
}

type BackupLabel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Created int64  `json:"created"`
}

type BackupEvent struct {
	Name     string  `json:"name"`
	Start    int64   `json:"start"`
	End      int64   `json:"end"`
	TzOffset float64 `json:"tzOffset"`
	LabelID  *string `json:"labelId,omitempty"`
	Created  int64   `json:"created"`
}

type BackupSetting struct {
	Key     string `json:"key"`
	Value   any    `json:"value"`
	Created int64  `json:"created"`
}
