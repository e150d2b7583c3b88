package domain

import "strings"

// QuoteToken returns the token as written in a map file.
// Empty tokens and tokens holding whitespace or quotes are wrapped in
// double quotes with backslash escapes. Line breaks are written as \n and
// \r so a token never spans lines.
func QuoteToken(tok string) string {
	if tok != "" && !strings.ContainsAny(tok, " \t\r\n\"\\") {
		return tok
	}
	var b strings.Builder
	b.Grow(len(tok) + 2)
	b.WriteByte('"')
	for i := 0; i < len(tok); i++ {
		switch c := tok[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// JoinTokens quotes each token and joins them with single spaces.
func JoinTokens(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = QuoteToken(tok)
	}
	return strings.Join(quoted, " ")
}

// SplitTokens splits a line into whitespace separated tokens.
// Double quoted tokens may hold whitespace. Inside quotes \n and \r decode
// to line breaks and a backslash escapes any other next byte.
// An unterminated quote runs to the end of the line.
func SplitTokens(line string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		inToken bool
		quoted  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(unescape(line[i]))
		case quoted && c == '"':
			quoted = false
		case quoted:
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\r':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		case c == '"':
			inToken = true
			quoted = true
		default:
			inToken = true
			cur.WriteByte(c)
		}
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	}
	return c
}
