// Copyright © 2025 The MON authors

package lint

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Code is a stable diagnostic identifier.  The numeric value groups codes
// into families: 1xxx complexity, 2xxx smells, 3xxx style, 4xxx imports.
type Code int

const (
	MaxNestingDepth       Code = 1001
	MaxObjectMembers      Code = 1002
	MaxArrayItems         Code = 1003
	UnusedAnchor          Code = 2001
	DuplicateKey          Code = 2002
	ExcessiveSpreads      Code = 2003
	MagicNumber           Code = 2004
	MissingTypeValidation Code = 3001
	InconsistentNaming    Code = 3002
	EmptyObject           Code = 3003
	DeepImportChain       Code = 4001
	CircularDependency    Code = 4002
	UnusedImport          Code = 4003
)

type codeInfo struct {
	name        string
	title       string
	severity    Severity
	configKey   string
	description string
}

const alwaysEnabled = "N/A (always enabled)"

var codeTable = map[Code]codeInfo{
	MaxNestingDepth: {
		"MaxNestingDepth", "Excessive nesting depth", SeverityWarning, "max_nesting_depth",
		"Deeply nested structures are hard to read and maintain. Consider flattening or extracting nested parts.",
	},
	MaxObjectMembers: {
		"MaxObjectMembers", "Too many object members", SeverityWarning, "max_object_members",
		"Large objects with many members are difficult to understand. Consider splitting into smaller, focused objects.",
	},
	MaxArrayItems: {
		"MaxArrayItems", "Too many array items", SeverityWarning, "max_array_items",
		"Very large arrays may indicate the need for pagination or chunking. Consider restructuring your data.",
	},
	UnusedAnchor: {
		"UnusedAnchor", "Unused anchor definition", SeverityWarning, "warn_unused_anchors",
		"An anchor is defined but never referenced. Remove it or use it with an alias (*anchor) or spread (...*anchor).",
	},
	DuplicateKey: {
		"DuplicateKey", "Duplicate object key", SeverityError, alwaysEnabled,
		"Object has duplicate keys. The second occurrence will override the first, which is likely unintentional.",
	},
	ExcessiveSpreads: {
		"ExcessiveSpreads", "Too many spread operators", SeverityWarning, "max_spreads_per_object",
		"Too many spread operators in a single object make it hard to track the final shape. Consider simplifying.",
	},
	MagicNumber: {
		"MagicNumber", "Magic number literal", SeverityInfo, "warn_magic_numbers",
		"Literal numbers without context are hard to understand. Extract them as named constants with descriptive names.",
	},
	MissingTypeValidation: {
		"MissingTypeValidation", "Missing type validation", SeverityInfo, "suggest_type_validation",
		"Data lacks type validation. Add type constraints (:: TypeName) to ensure data integrity.",
	},
	InconsistentNaming: {
		"InconsistentNaming", "Inconsistent naming convention", SeverityInfo, "enforce_naming_convention",
		"Keys use inconsistent naming conventions (camelCase vs snake_case). Choose one style for consistency.",
	},
	EmptyObject: {
		"EmptyObject", "Empty object or array", SeverityInfo, "warn_empty_structures",
		"Empty objects or arrays may indicate incomplete data or unnecessary structure. Verify this is  intentional.",
	},
	DeepImportChain: {
		"DeepImportChain", "Deep import chain", SeverityWarning, "max_import_chain_depth",
		"Anchor or type is imported through multiple levels. This creates tight coupling and makes refactoring difficult.",
	},
	CircularDependency: {
		"CircularDependency", "Circular dependency detected", SeverityError, alwaysEnabled,
		"Files import each other in a cycle. This can cause issues and indicates poor module organization.",
	},
	UnusedImport: {
		"UnusedImport", "Unused import", SeverityWarning, "warn_unused_imports",
		"Import statement brings in items that are never used. Remove to keep code clean.",
	},
}

// AllCodes returns every diagnostic code in numeric order.
func AllCodes() []Code {
	return []Code{
		MaxNestingDepth, MaxObjectMembers, MaxArrayItems,
		UnusedAnchor, DuplicateKey, ExcessiveSpreads, MagicNumber,
		MissingTypeValidation, InconsistentNaming, EmptyObject,
		DeepImportChain, CircularDependency, UnusedImport,
	}
}

// String returns the code in its user facing form, e.g. "LINT2002".
func (c Code) String() string {
	return "LINT" + strconv.Itoa(int(c))
}

// Valid reports whether c is a known code.
func (c Code) Valid() bool {
	_, ok := codeTable[c]
	return ok
}

// Name returns the CamelCase name of the code, e.g. "DuplicateKey".
func (c Code) Name() string {
	return codeTable[c].name
}

// Title returns a short human readable summary.
func (c Code) Title() string {
	return codeTable[c].title
}

// Description explains the problem a code reports and how to address it.
func (c Code) Description() string {
	return codeTable[c].description
}

// DefaultSeverity is the severity diagnostics with code c are reported at.
func (c Code) DefaultSeverity() Severity {
	return codeTable[c].severity
}

// ConfigKey names the configuration setting controlling c.
func (c Code) ConfigKey() string {
	return codeTable[c].configKey
}

// LookupCode finds a code by its LINT number ("LINT2004", case
// insensitive) or its name ("MagicNumber").
func LookupCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(s), "LINT") {
		n, err := strconv.Atoi(s[4:])
		if err != nil {
			return 0, false
		}
		c := Code(n)
		return c, c.Valid()
	}
	for _, c := range AllCodes() {
		if strings.EqualFold(c.Name(), s) {
			return c, true
		}
	}
	return 0, false
}

// MarshalJSON serializes the code as its LINT string.
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either form understood by LookupCode.
func (c *Code) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	code, ok := LookupCode(str)
	if !ok {
		return fmt.Errorf("unknown diagnostic code: %q", str)
	}
	*c = code
	return nil
}
