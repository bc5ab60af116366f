package cobol

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Codepage is a single-byte EBCDIC character set.
type Codepage struct {
	name  string
	table [256]rune
}

// Name returns the codepage identifier, e.g. "cp500".
func (c *Codepage) Name() string { return c.name }

// DecodeString converts EBCDIC bytes to a UTF-8 string.
func (c *Codepage) DecodeString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, x := range b {
		sb.WriteRune(c.table[x])
	}
	return sb.String()
}

func fromCharmap(name string, cm *charmap.Charmap, overrides map[byte]rune) *Codepage {
	cp := &Codepage{name: name}
	for i := 0; i < 256; i++ {
		cp.table[i] = cm.DecodeByte(byte(i))
	}
	for b, r := range overrides {
		cp.table[b] = r
	}
	return cp
}

var (
	// CP037 is EBCDIC US/Canada.
	CP037 = fromCharmap("cp037", charmap.CodePage037, nil)

	// CP500 is EBCDIC International. It differs from CP037 only in the
	// placement of seven punctuation characters.
	CP500 = fromCharmap("cp500", charmap.CodePage037, map[byte]rune{
		0x4A: '[',
		0x4F: '!',
		0x5A: ']',
		0x5F: '^',
		0xB0: '¢',
		0xBA: '¬',
		0xBB: '|',
	})

	// CP1047 is EBCDIC Latin-1/Open Systems.
	CP1047 = fromCharmap("cp1047", charmap.CodePage1047, nil)

	// CP1140 is CP037 with the euro sign.
	CP1140 = fromCharmap("cp1140", charmap.CodePage1140, nil)
)

var codepages = map[string]*Codepage{
	"cp037":  CP037,
	"cp500":  CP500,
	"cp1047": CP1047,
	"cp1140": CP1140,
}

// LookupCodepage returns the codepage with the given name.
func LookupCodepage(name string) (*Codepage, error) {
	cp, ok := codepages[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown codepage %q (known: %s)", name, strings.Join(CodepageNames(), ", "))
	}
	return cp, nil
}

// CodepageNames lists the supported codepages in sorted order.
func CodepageNames() []string {
	names := make([]string, 0, len(codepages))
	for n := range codepages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
