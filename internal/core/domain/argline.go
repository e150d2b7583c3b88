package domain

import "strings"

// Built-in info section names.
const (
	InfoMap       = "MapInfo"
	InfoTask      = "TaskInfo"
	InfoRoute     = "RouteInfo"
	InfoSchedTask = "SchedTaskInfo"
	InfoSched     = "SchedInfo"
	InfoCairn     = "CairnInfo"
	InfoCustom    = "CustomInfo"
	InfoGroup     = "GroupInfo"
)

// BuiltinInfoNames lists the built-in info sections in file order.
func BuiltinInfoNames() []string {
	return []string{InfoMap, InfoTask, InfoRoute, InfoSchedTask, InfoSched, InfoCairn, InfoCustom, InfoGroup}
}

// InfoKeyword returns the file keyword of an info section.
func InfoKeyword(sectionName string) string {
	return sectionName + ":"
}

// ParamsToken is the first argument of a CairnInfo line holding object parameters.
const ParamsToken = "Params"

// ArgLine is one metadata line of an info section.
type ArgLine struct {
	// Keyword is the section keyword, e.g. "RouteInfo:".
	Keyword string

	// Args are the tokens following the keyword.
	Args []string
}

// NewArgLine builds an argument line for an info section.
func NewArgLine(sectionName string, args ...string) ArgLine {
	return ArgLine{Keyword: InfoKeyword(sectionName), Args: args}
}

// First returns the first argument or "".
func (a ArgLine) First() string {
	if len(a.Args) == 0 {
		return ""
	}
	return a.Args[0]
}

// String returns the file line.
func (a ArgLine) String() string {
	if len(a.Args) == 0 {
		return a.Keyword
	}
	return a.Keyword + " " + JoinTokens(a.Args)
}

// Equal reports whether both lines have the same keyword and arguments.
func (a ArgLine) Equal(other ArgLine) bool {
	if !strings.EqualFold(a.Keyword, other.Keyword) || len(a.Args) != len(other.Args) {
		return false
	}
	for i := range a.Args {
		if a.Args[i] != other.Args[i] {
			return false
		}
	}
	return true
}
