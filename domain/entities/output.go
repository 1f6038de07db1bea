package entities

// OutputAction is the operator's answer when the export file already exists
type OutputAction string

const (
	OutputOverwrite OutputAction = "overwrite"
	OutputRename    OutputAction = "rename"
	OutputCancel    OutputAction = "cancel"
)

// OutputChoice pairs an OutputAction with the new file name for renames
type OutputChoice struct {
	Action OutputAction
	Name   string
}

// WriteMode controls whether a store truncates or appends
type WriteMode int

const (
	// WriteCreate truncates (or creates) the file and writes the header
	WriteCreate WriteMode = iota
	// WriteAppend adds rows after the existing content, without a header
	WriteAppend
)
