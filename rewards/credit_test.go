package rewards

import (
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewSettlementBatchTotals(t *testing.T) {
	credits := []PendingCredit{
		{VoteID: uuid.NewV4(), Amount: decimal.New(10, 0)},
		{VoteID: uuid.NewV4(), Amount: decimal.New(30, 0)},
	}
	batch := newSettlementBatch(uuid.NewV4(), uuid.NewV4(), "vendor-wallet", credits)
	assert.True(t, batch.Total.Equal(decimal.New(40, 0)))
	assert.Len(t, batch.Credits, 2)
}

func TestNewSettlementBatchEmpty(t *testing.T) {
	batch := newSettlementBatch(uuid.NewV4(), uuid.NewV4(), "vendor-wallet", nil)
	assert.True(t, batch.Total.Equal(decimal.Zero))
}
