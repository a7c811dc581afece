package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/amishk599/offermatch/internal/textnorm"
)

// Class is the requirement level of a description segment.
type Class int

const (
	ClassRequired Class = iota
	ClassOptional
)

// trigger is a phrase that sets a segment's class and the weight of the
// skills found in it.
type trigger struct {
	phrase string
	class  Class
	weight int
}

// Triggers are matched on normalized text as word prefixes, so "requis"
// also covers "requises". Within one clause optional triggers win over
// required ones: "la maitrise de docker serait un plus" is optional.
var triggers = []trigger{
	{"requis", ClassRequired, 5},
	{"indispensable", ClassRequired, 5},
	{"maitrise de", ClassRequired, 5},
	{"maitrise d'", ClassRequired, 5},
	{"obligatoire", ClassRequired, 5},
	{"exige", ClassRequired, 5},
	{"imperati", ClassRequired, 5},
	{"must have", ClassRequired, 5},
	{"required", ClassRequired, 5},

	{"apprecie", ClassOptional, 3},
	{"souhaite", ClassOptional, 3},
	{"un plus", ClassOptional, 2},
	{"serait un plus", ClassOptional, 2},
	{"idealement", ClassOptional, 2},
	{"bonus", ClassOptional, 2},
	{"nice to have", ClassOptional, 2},
	{"optionnel", ClassOptional, 2},
}

// defaultRequiredWeight applies to segments without any trigger.
const defaultRequiredWeight = 4

// segment is one normalized line or sentence of a description.
type segment struct {
	text      string
	class     Class
	weight    int
	triggered bool
	mixed     bool // carries both required and optional triggers
	header    bool // ends with ':' and so may govern the lines after it
}

// splitSegments breaks raw text into lines, then lines into sentences, and
// normalizes each piece. A triggered header ("Compétences appréciées :")
// lends its class to the untriggered segments below it until the next header
// or blank line.
func splitSegments(raw string) []segment {
	var out []segment
	var section *segment

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			section = nil
			continue
		}
		trimmed = strings.TrimSpace(trimBullet(trimmed))

		for _, sentence := range splitSentences(trimmed) {
			norm := textnorm.Normalize(sentence)
			if norm == "" {
				continue
			}
			seg := classify(norm)
			seg.header = strings.HasSuffix(norm, ":")
			if seg.mixed && !seg.header {
				out = append(out, splitClauses(norm)...)
				continue
			}

			switch {
			case seg.header:
				section = nil
				if seg.triggered {
					s := seg
					section = &s
				}
			case !seg.triggered && section != nil:
				seg.class, seg.weight = section.class, section.weight
			}
			out = append(out, seg)
		}
	}
	return out
}

// classify applies the trigger table to one normalized segment.
func classify(norm string) segment {
	seg := segment{text: norm, class: ClassRequired, weight: defaultRequiredWeight}
	var req, opt *trigger
	for i := range triggers {
		tr := &triggers[i]
		if !textnorm.HasWordPrefix(norm, tr.phrase) {
			continue
		}
		switch tr.class {
		case ClassOptional:
			if opt == nil || tr.weight > opt.weight {
				opt = tr
			}
		default:
			if req == nil {
				req = tr
			}
		}
	}
	seg.mixed = req != nil && opt != nil
	switch {
	case opt != nil:
		seg.class, seg.weight, seg.triggered = ClassOptional, opt.weight, true
	case req != nil:
		seg.class, seg.weight, seg.triggered = ClassRequired, req.weight, true
	}
	return seg
}

// splitClauses classifies each clause of a segment that mixes required and
// optional triggers, so that "java indispensable, docker apprecie" keeps java
// required. Clauses are cut on commas and on " et " / " and ". An untriggered
// clause takes the class of the next triggered one ("java, python
// indispensables"), or of the previous one when none follows. A segment that
// cannot be cut ("la maitrise de docker serait un plus") stays optional.
func splitClauses(norm string) []segment {
	pieces := clauses(norm)
	if len(pieces) < 2 {
		return []segment{classify(norm)}
	}

	segs := make([]segment, len(pieces))
	for i, p := range pieces {
		segs[i] = classify(p)
	}
	for i := range segs {
		if segs[i].triggered {
			continue
		}
		if j := nearestTriggered(segs, i); j >= 0 {
			segs[i].class, segs[i].weight = segs[j].class, segs[j].weight
		}
	}
	return segs
}

func nearestTriggered(segs []segment, i int) int {
	for j := i + 1; j < len(segs); j++ {
		if segs[j].triggered {
			return j
		}
	}
	for j := i - 1; j >= 0; j-- {
		if segs[j].triggered {
			return j
		}
	}
	return -1
}

var clauseSeparators = []string{" et ", " and "}

func clauses(norm string) []string {
	var out []string
	for _, part := range strings.Split(norm, ",") {
		pieces := []string{part}
		for _, sep := range clauseSeparators {
			var next []string
			for _, p := range pieces {
				next = append(next, strings.Split(p, sep)...)
			}
			pieces = next
		}
		for _, p := range pieces {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// splitSentences cuts on '.', '!', '?' and ';' when followed by whitespace or
// the end of the line, so "node.js" and "3.5" stay whole.
func splitSentences(line string) []string {
	var out []string
	start := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		next := i + size
		if r == '.' || r == '!' || r == '?' || r == ';' {
			if next >= len(line) || isSpaceByte(line[next]) {
				out = append(out, line[start:next])
				start = next
			}
		}
		i = next
	}
	if start < len(line) {
		out = append(out, line[start:])
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

var bulletMarkers = []string{"- ", "* ", "•", "·", "– "}

func trimBullet(s string) string {
	for _, p := range bulletMarkers {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}
