package config

// BinaryPolicy controls how the File Driver treats files that look binary
// (spec.md §4.5 step 5, Glossary "Binary policy").
type BinaryPolicy int

const (
	BinaryPolicyBinary BinaryPolicy = iota
	BinaryPolicyText
	BinaryPolicyWithoutMatch
)

func ParseBinaryPolicy(s string) (BinaryPolicy, bool) {
	switch s {
	case "binary":
		return BinaryPolicyBinary, true
	case "text":
		return BinaryPolicyText, true
	case "without-match", "without-matches":
		return BinaryPolicyWithoutMatch, true
	default:
		return 0, false
	}
}

// DirPolicy controls how the File Driver reacts when an input path is a
// directory (spec.md §4.5 step 2, §4.6).
type DirPolicy int

const (
	DirPolicyRead DirPolicy = iota
	DirPolicySkip
	DirPolicyRecurse
)

func ParseDirPolicy(s string) (DirPolicy, bool) {
	switch s {
	case "read":
		return DirPolicyRead, true
	case "skip":
		return DirPolicySkip, true
	case "recurse":
		return DirPolicyRecurse, true
	default:
		return 0, false
	}
}

// ListFiles selects the -l/-L "list file names only" behavior.
type ListFiles int

const (
	ListFilesNone ListFiles = 0
	ListFilesWithMatch ListFiles = 1
	ListFilesWithoutMatch ListFiles = -1
)
