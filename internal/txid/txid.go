// Package txid assigns transactions a content-derived identity so
// rows merged from many statements can be told apart.
package txid

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/finview-dev/finview/internal/model"
)

const dateLayout = "2006-01-02"

// Hash returns the hex sha256 over date, description, amount and
// source file. Two identical rows from the same statement collide on
// purpose: the statement printed them once.
func Hash(t model.Transaction) string {
	h := sha256.New()
	h.Write([]byte(t.Date.Format(dateLayout)))
	h.Write([]byte(t.Description))
	h.Write([]byte(t.Amount.String()))
	h.Write([]byte(t.SourceFile))
	return hex.EncodeToString(h.Sum(nil))
}

// Stamp fills the Hash field of every transaction in place.
func Stamp(txns []model.Transaction) {
	for i := range txns {
		txns[i].Hash = Hash(txns[i])
	}
}
