// Package fingerprint derives a content digest of a transaction collection, used to
// decide whether cached analytics still describe the current ledger.
package fingerprint

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"fjacquet/ledger-analytics/internal/models"

	"github.com/cespare/xxhash/v2"
)

// Empty is the fingerprint of an empty collection.
const Empty = "empty"

type canonical struct {
	id   string
	line string
}

// Of returns the fingerprint of transactions. It is independent of input order and
// changes whenever the count, or any transaction's id, amount, date or category,
// changes.
func Of(transactions []models.Transaction) string {
	if len(transactions) == 0 {
		return Empty
	}

	rows := make([]canonical, len(transactions))
	for i, tx := range transactions {
		rows[i] = canonical{id: tx.ID, line: line(tx)}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].id != rows[j].id {
			return rows[i].id < rows[j].id
		}
		return rows[i].line < rows[j].line
	})

	h := xxhash.New()
	_, _ = h.WriteString(strconv.Itoa(len(rows)))
	_, _ = h.WriteString("\n")
	for _, r := range rows {
		_, _ = h.WriteString(r.line)
		_, _ = h.WriteString("\n")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// line serializes the tracked fields. Fields are length-prefixed so that separators
// inside values cannot produce colliding lines.
func line(tx models.Transaction) string {
	date := tx.RawDate
	if when, ok := tx.When(); ok {
		date = when.UTC().Format(time.RFC3339Nano)
	}
	fields := []string{tx.ID, date, tx.Amount.String(), tx.EffectiveCategory()}

	var b strings.Builder
	for _, f := range fields {
		b.WriteString(strconv.Itoa(len(f)))
		b.WriteByte(':')
		b.WriteString(f)
		b.WriteByte('|')
	}
	return b.String()
}
