package pdftext

import (
	"strconv"
	"strings"
)

// kernSpace is the TJ displacement (thousandths of an em) past which a gap
// is rendered as a space.
const kernSpace = -250

// textFromStream interprets the text operators of a decoded page content
// stream: Tj, TJ, ', ", Td, TD, Tm and T*.
func textFromStream(data []byte) string {
	var (
		sb    strings.Builder
		strs  []string
		nums  []float64
		lastY float64
		haveY bool
	)
	newline := func() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	}
	space := func() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
	}
	lastStr := func() string {
		if len(strs) == 0 {
			return ""
		}
		return strs[len(strs)-1]
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isWhite(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, n := literalString(data[i:])
			strs = append(strs, s)
			i += n
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			s, n := hexString(data[i:])
			strs = append(strs, s)
			i += n
		case c == '[':
			s, n := textArray(data[i:])
			strs = append(strs, s)
			i += n
		case c == '/':
			i++
			for i < len(data) && !isWhite(data[i]) && !isDelim(data[i]) {
				i++
			}
		case isNumStart(c):
			j := i + 1
			for j < len(data) && (isDigit(data[j]) || data[j] == '.') {
				j++
			}
			if f, err := strconv.ParseFloat(string(data[i:j]), 64); err == nil {
				nums = append(nums, f)
			}
			i = j
		default:
			j := i + 1
			for j < len(data) && !isWhite(data[j]) && !isDelim(data[j]) {
				j++
			}
			switch string(data[i:j]) {
			case "Tj", "TJ":
				sb.WriteString(lastStr())
			case "'", `"`:
				newline()
				sb.WriteString(lastStr())
			case "T*":
				newline()
			case "Td", "TD":
				if len(nums) >= 2 && nums[len(nums)-1] != 0 {
					newline()
				} else {
					space()
				}
			case "Tm":
				if len(nums) >= 6 {
					y := nums[len(nums)-1]
					if haveY && y != lastY {
						newline()
					} else {
						space()
					}
					lastY, haveY = y, true
				}
			}
			strs, nums = strs[:0], nums[:0]
			i = j
		}
	}
	return sb.String()
}

// literalString decodes a (...) string starting at b[0], honouring nested
// parentheses and backslash escapes. It returns the text and bytes consumed.
func literalString(b []byte) (string, int) {
	var sb strings.Builder
	depth := 0
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return sb.String(), i
			}
			sb.WriteByte(c)
		case c == '\\' && i+1 < len(b):
			i++
			switch e := b[i]; e {
			case 'n':
				sb.WriteByte('\n')
				i++
			case 'r':
				sb.WriteByte('\r')
				i++
			case 't':
				sb.WriteByte('\t')
				i++
			case 'b', 'f':
				i++
			case '\n':
				i++
			case '\r':
				i++
				if i < len(b) && b[i] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					val, n := 0, 0
					for n < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7' {
						val = val*8 + int(b[i]-'0')
						i++
						n++
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(e)
					i++
				}
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// hexString decodes <48656C6C6F>. Non-ASCII bytes are dropped since font
// encodings are not resolved.
func hexString(b []byte) (string, int) {
	end := 1
	for end < len(b) && b[end] != '>' {
		end++
	}
	var digits []byte
	for _, c := range b[1:end] {
		if hexVal(c) >= 0 {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	var sb strings.Builder
	for k := 0; k+1 < len(digits); k += 2 {
		v := byte(hexVal(digits[k])<<4 | hexVal(digits[k+1]))
		if v >= 0x20 && v < 0x7f {
			sb.WriteByte(v)
		}
	}
	if end < len(b) {
		end++
	}
	return sb.String(), end
}

// textArray flattens a TJ operand: strings are concatenated and large
// negative displacements become spaces.
func textArray(b []byte) (string, int) {
	var sb strings.Builder
	i := 1
	for i < len(b) {
		c := b[i]
		switch {
		case c == ']':
			return sb.String(), i + 1
		case c == '(':
			s, n := literalString(b[i:])
			sb.WriteString(s)
			i += n
		case c == '<':
			s, n := hexString(b[i:])
			sb.WriteString(s)
			i += n
		case isNumStart(c):
			j := i + 1
			for j < len(b) && (isDigit(b[j]) || b[j] == '.') {
				j++
			}
			if f, err := strconv.ParseFloat(string(b[i:j]), 64); err == nil && f < kernSpace {
				sb.WriteByte(' ')
			}
			i = j
		default:
			i++
		}
	}
	return sb.String(), i
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumStart(c byte) bool { return isDigit(c) || c == '-' || c == '+' || c == '.' }

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
