package config

// ConfigFileNames are the file names FindConfig looks for, in order.
var ConfigFileNames = []string{"adaptive.yaml", "adaptive.yml"}

// Defaults
const (
	DefaultInlineThreshold = 8
	DefaultInitialCapacity = 0
	DefaultLogLevel        = "warn"
	MaxCallDepth           = 2000
)

// Profile output formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ProfileFormats lists the accepted --format values.
var ProfileFormats = []string{FormatText, FormatYAML, FormatJSON}

// Built-in function names
const (
	PrintFuncName = "print"
	LenFuncName   = "len"
	AbsFuncName   = "abs"
	MinFuncName   = "min"
	MaxFuncName   = "max"
)

// List method names
const (
	AppendMethodName  = "append"
	InsertMethodName  = "insert"
	PopMethodName     = "pop"
	SortMethodName    = "sort"
	ReverseMethodName = "reverse"
	IndexMethodName   = "index"
	ExtendMethodName  = "extend"
	CopyMethodName    = "copy"
)
