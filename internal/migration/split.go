package migration

import "strings"

// splitStatements SQL'i ';' ile böler. Tırnak, $tag$ blokları ve yorumlar içindeki ';' atlanır.
func splitStatements(sqlText string) []string {
	var out []string
	var buf strings.Builder

	inSingle := false
	inDollar := false
	dollarTag := ""
	inLineComment := false
	inBlockComment := false

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" && !onlyComments(s) {
			out = append(out, s)
		}
		buf.Reset()
	}

	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]
		next := byte(0)
		if i+1 < len(sqlText) {
			next = sqlText[i+1]
		}

		switch {
		case inLineComment:
			buf.WriteByte(c)
			if c == '\n' {
				inLineComment = false
			}
			continue
		case inBlockComment:
			buf.WriteByte(c)
			if c == '*' && next == '/' {
				buf.WriteByte('/')
				i++
				inBlockComment = false
			}
			continue
		case inSingle:
			buf.WriteByte(c)
			if c == '\'' {
				if next == '\'' {
					buf.WriteByte(next)
					i++
				} else {
					inSingle = false
				}
			}
			continue
		}

		if !inDollar {
			if c == '-' && next == '-' {
				inLineComment = true
				buf.WriteString("--")
				i++
				continue
			}
			if c == '/' && next == '*' {
				inBlockComment = true
				buf.WriteString("/*")
				i++
				continue
			}
			if c == '\'' {
				inSingle = true
				buf.WriteByte(c)
				continue
			}
		}

		if c == '$' {
			if tag, ok := dollarTagAt(sqlText, i); ok {
				buf.WriteString(tag)
				i += len(tag) - 1
				if !inDollar {
					inDollar, dollarTag = true, tag
				} else if tag == dollarTag {
					inDollar, dollarTag = false, ""
				}
				continue
			}
		}

		if c == ';' && !inDollar {
			flush()
			continue
		}
		buf.WriteByte(c)
	}
	flush()
	return out
}

// dollarTagAt i konumunda $tag$ veya $$ varsa döner
func dollarTagAt(s string, i int) (string, bool) {
	j := i + 1
	for j < len(s) {
		ch := s[j]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' {
			j++
			continue
		}
		break
	}
	if j < len(s) && s[j] == '$' {
		return s[i : j+1], true
	}
	return "", false
}

func onlyComments(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
