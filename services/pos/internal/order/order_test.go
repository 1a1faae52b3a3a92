package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGST(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  int64
		wantGST   int64
		wantTotal int64
	}{
		{name: "hundred", subtotal: 100, wantGST: 18, wantTotal: 118},
		{name: "roundsUp", subtotal: 133, wantGST: 24, wantTotal: 157},
		{name: "roundsDown", subtotal: 101, wantGST: 18, wantTotal: 119},
		{name: "halfRoundsUp", subtotal: 25, wantGST: 5, wantTotal: 30},
		{name: "zero", subtotal: 0, wantGST: 0, wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals([]LineItem{{Name: "x", Price: tt.subtotal, Qty: 1}})
			if totals.GST != tt.wantGST {
				t.Errorf("GST = %d, want %d", totals.GST, tt.wantGST)
			}
			if totals.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", totals.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalsSumsLines(t *testing.T) {
	items := []LineItem{
		{Name: "Parotta", Price: 15, Qty: 2},
		{Name: "Chappathi", Price: 40, Qty: 1},
	}
	totals := ComputeTotals(items)
	assert.Equal(t, Totals{Subtotal: 70, GST: 13, Total: 83}, totals)
	assert.Equal(t, "Parotta x2, Chappathi x1", Summary(items))
}

func TestKitchenOrderShortID(t *testing.T) {
	assert.Equal(t, "12345", KitchenOrder{OrderID: "ORD-1712345"}.ShortID())
	assert.Equal(t, "ab", KitchenOrder{OrderID: "ab"}.ShortID())
}

func TestKitchenOrderMarshalJSON(t *testing.T) {
	o := KitchenOrder{
		OrderID:   "ORD-1",
		Table:     "T3",
		Items:     "Biryani x2",
		Total:     118,
		Status:    orderstatus.Statuses.Cooking,
		CreatedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(o)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "COOKING", got["status"])
	assert.Equal(t, "2024-05-01T10:30:00Z", got["created_at"])
	assert.Equal(t, float64(118), got["total"])
}
