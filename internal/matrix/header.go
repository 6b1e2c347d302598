package matrix

import (
	"strings"

	"phenomatrix/internal/errs"
	"phenomatrix/internal/logging"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/source"
)

// Header maps worksheet column letters to their resolved column names and
// back. Ignored columns are never registered, so the row pass skips them
// without consulting the ruleset again.
type Header struct {
	letterToName map[string]string
	nameToLetter map[string]string
}

// Name resolves a column letter to its column name.
func (h *Header) Name(letter string) (string, bool) {
	n, ok := h.letterToName[letter]
	return n, ok
}

// Letter resolves a column name to its column letter.
func (h *Header) Letter(name string) (string, bool) {
	l, ok := h.nameToLetter[name]
	return l, ok
}

// Names returns the registered column names.
func (h *Header) Names() []string {
	names := make([]string, 0, len(h.nameToLetter))
	for n := range h.nameToLetter {
		names = append(names, n)
	}
	return names
}

// HeaderFromRuleset builds the column mapping from the ruleset's explicit
// column-letter lookup, for sheets without a header row.
func HeaderFromRuleset(rs *ruleset.Sheet) (*Header, error) {
	if len(rs.ColumnLetters) == 0 {
		return nil, errs.ConfigInvalid("sheet '%s' has no header row and no column letter lookup", rs.Name)
	}
	h := &Header{
		letterToName: make(map[string]string),
		nameToLetter: make(map[string]string),
	}
	for name, letter := range rs.ColumnLetters {
		if !rs.QualifiedColumns[name] {
			return nil, errs.ConfigInvalid("column letter lookup names unqualified column '%s' for worksheet '%s'", name, rs.Name)
		}
		h.letterToName[letter] = name
		h.nameToLetter[name] = letter
	}
	return h, nil
}

// ResolveHeader validates the header row against the sheet's qualified
// column list. A header name that is neither qualified nor ignored is a
// configuration error: it signals drift between the ruleset and the
// spreadsheet that must not be silently absorbed.
func ResolveHeader(row source.Row, rs *ruleset.Sheet, log *logging.Logger) (*Header, error) {
	h := &Header{
		letterToName: make(map[string]string),
		nameToLetter: make(map[string]string),
	}
	for _, cell := range row {
		name := strings.TrimSpace(cell.Value)
		if name == "" {
			log.Info("Ignoring column '%s' in worksheet '%s' since it has no header value", cell.Letter, rs.Name)
			continue
		}
		if rs.IgnoredColumns[name] {
			log.Info("As per configuration, ignoring column '%s' in worksheet '%s'", name, rs.Name)
			continue
		}
		if !rs.QualifiedColumns[name] {
			return nil, errs.ConfigInvalid("encountered unqualified column name '%s' for worksheet '%s'", name, rs.Name)
		}
		h.letterToName[cell.Letter] = name
		h.nameToLetter[name] = cell.Letter
		log.Info("Found column name '%s' in column '%s'", name, cell.Letter)
	}
	return h, nil
}
