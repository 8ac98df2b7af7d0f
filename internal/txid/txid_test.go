package txid

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finview-dev/finview/internal/model"
)

func sample() model.Transaction {
	return model.Transaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "COFFEE SHOP",
		Amount:      decimal.RequireFromString("-4.50"),
		SourceFile:  "2024-01-15 eStmt.pdf",
	}
}

func TestHashDeterministic(t *testing.T) {
	a := Hash(sample())
	b := Hash(sample())
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestHashReflectsContent(t *testing.T) {
	base := Hash(sample())

	changed := sample()
	changed.Description = "COFFEE SHOO"
	assert.NotEqual(t, base, Hash(changed))

	changed = sample()
	changed.Amount = decimal.RequireFromString("-4.51")
	assert.NotEqual(t, base, Hash(changed))

	changed = sample()
	changed.SourceFile = "other.pdf"
	assert.NotEqual(t, base, Hash(changed))
}

func TestStamp(t *testing.T) {
	txns := []model.Transaction{sample(), sample()}
	txns[1].Description = "OTHER"

	Stamp(txns)

	assert.Equal(t, Hash(txns[0]), txns[0].Hash)
	assert.NotEmpty(t, txns[1].Hash)
	assert.NotEqual(t, txns[0].Hash, txns[1].Hash)
}
