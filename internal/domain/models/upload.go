package models

// ColumnType is the expected type of a dataset column.
type ColumnType string

const (
	ColumnString ColumnType = "String"
	ColumnNumber ColumnType = "Number"
	ColumnDate   ColumnType = "Date"
)

// Column describes one column of the sales dataset contract.
type Column struct {
	Name     string
	Type     ColumnType
	Required bool
	Example  string
}

// UploadTicket is the presigned-upload grant from the backend.
type UploadTicket struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	UploadID  string `json:"upload_id"`
}
