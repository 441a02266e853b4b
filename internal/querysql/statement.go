package querysql

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMultipleStatements is returned when SQL text holds more than one
// statement. The engine compiles only the first, so the rest would be
// dropped without notice.
var ErrMultipleStatements = errors.New("more than one statement in query")

type tokenClass int

const (
	tkSemi tokenClass = iota
	tkSpace
	tkOther
	tkExplain
	tkCreate
	tkTemp
	tkTrigger
	tkEnd
)

const (
	stInvalid = iota
	stStart
	stNormal
	stExplain
	stCreate
	stTrigger
	stSemi
	stEnd
)

// statementTrans is SQLite's statement-completion automaton. Semicolons
// inside CREATE TRIGGER ... BEGIN ... END do not end the statement.
var statementTrans = [8][8]int{
	//              SEMI     SPACE      OTHER      EXPLAIN    CREATE    TEMP       TRIGGER    END
	stInvalid: {stStart, stInvalid, stNormal, stExplain, stCreate, stNormal, stNormal, stNormal},
	stStart:   {stStart, stStart, stNormal, stExplain, stCreate, stNormal, stNormal, stNormal},
	stNormal:  {stStart, stNormal, stNormal, stNormal, stNormal, stNormal, stNormal, stNormal},
	stExplain: {stStart, stExplain, stExplain, stNormal, stCreate, stNormal, stNormal, stNormal},
	stCreate:  {stStart, stCreate, stNormal, stNormal, stNormal, stCreate, stTrigger, stNormal},
	stTrigger: {stSemi, stTrigger, stTrigger, stTrigger, stTrigger, stTrigger, stTrigger, stTrigger},
	stSemi:    {stSemi, stSemi, stTrigger, stTrigger, stTrigger, stTrigger, stTrigger, stEnd},
	stEnd:     {stStart, stEnd, stTrigger, stTrigger, stTrigger, stTrigger, stTrigger, stTrigger},
}

// SingleStatement fails with ErrMultipleStatements when anything other than
// whitespace, comments or semicolons follows the first complete statement.
func SingleStatement(sql string) error {
	end, ok := firstStatementEnd(sql)
	if !ok {
		return nil
	}
	for i := end + 1; i < len(sql); {
		class, next := nextToken(sql, i)
		if class != tkSpace && class != tkSemi {
			return fmt.Errorf("%w: trailing %q", ErrMultipleStatements, strings.TrimSpace(sql[i:]))
		}
		i = next
	}
	return nil
}

// FirstStatement returns the first statement of sql without its
// terminating semicolon or surrounding whitespace.
func FirstStatement(sql string) string {
	if end, ok := firstStatementEnd(sql); ok {
		sql = sql[:end]
	}
	return strings.TrimSpace(sql)
}

// firstStatementEnd returns the index of the semicolon that completes the
// first non-empty statement.
func firstStatementEnd(sql string) (int, bool) {
	state := stInvalid
	for i := 0; i < len(sql); {
		class, next := nextToken(sql, i)
		prev := state
		state = statementTrans[state][class]
		if class == tkSemi && state == stStart && prev != stInvalid && prev != stStart {
			return i, true
		}
		i = next
	}
	return 0, false
}

// nextToken classifies the token starting at i and returns the index just
// past it. Unterminated quotes and comments run to the end of the text.
func nextToken(sql string, i int) (tokenClass, int) {
	c := sql[i]
	switch {
	case c == ';':
		return tkSemi, i + 1
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
		return tkSpace, i + 1
	case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
		if nl := strings.IndexByte(sql[i:], '\n'); nl >= 0 {
			return tkSpace, i + nl + 1
		}
		return tkSpace, len(sql)
	case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
		if end := strings.Index(sql[i+2:], "*/"); end >= 0 {
			return tkSpace, i + 2 + end + 2
		}
		return tkSpace, len(sql)
	case c == '\'' || c == '"' || c == '`' || c == '[':
		closing := c
		if c == '[' {
			closing = ']'
		}
		if end := strings.IndexByte(sql[i+1:], closing); end >= 0 {
			return tkOther, i + 1 + end + 1
		}
		return tkOther, len(sql)
	case isIdentByte(c):
		j := i
		for j < len(sql) && isIdentByte(sql[j]) {
			j++
		}
		return keywordClass(sql[i:j]), j
	default:
		return tkOther, i + 1
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func keywordClass(word string) tokenClass {
	switch strings.ToLower(word) {
	case "explain":
		return tkExplain
	case "create":
		return tkCreate
	case "temp", "temporary":
		return tkTemp
	case "trigger":
		return tkTrigger
	case "end":
		return tkEnd
	default:
		return tkOther
	}
}

// ExpressionProjection wraps query so that each result column is an
// expression rather than a direct column reference. The values are
// unchanged; the columns lose their declared types and keep the given
// names in order.
func ExpressionProjection(query string, columns []string) string {
	inner := make([]string, len(columns))
	outer := make([]string, len(columns))
	for i, name := range columns {
		cell := quoteIdent(fmt.Sprintf("c%d", i))
		inner[i] = cell
		outer[i] = fmt.Sprintf("+%s AS %s", cell, quoteIdent(name))
	}
	return fmt.Sprintf("WITH sfsqlite_cells(%s) AS (\n%s\n)\nSELECT %s FROM sfsqlite_cells",
		strings.Join(inner, ", "), FirstStatement(query), strings.Join(outer, ", "))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
