package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

const sampleDeals = "name,ebitda,multiple,variant\n" +
	"Acme,3,5,\n" +
	"Hooli,abc,2,\n" +
	"Globex,1,1,double\n"

func writeDeals(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deals.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runBatch(t *testing.T) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	batchCmd.SetOut(&buf)
	batchCmd.SetContext(context.Background())
	t.Cleanup(func() {
		batchCmd.SetOut(nil)
		batchCmd.SetContext(context.TODO())
		resetFlags()
	})
	err := batchCmd.RunE(batchCmd, nil)
	return buf.String(), err
}

func TestBatchCmd_Metadata(t *testing.T) {
	assert.Equal(t, "batch", batchCmd.Use)
	assert.NotEmpty(t, batchCmd.Short)

	for _, name := range []string{"input", "sheet", "encoding", "output", "format", "variant", "schedule", "concurrency"} {
		assert.NotNil(t, batchCmd.Flags().Lookup(name), "batch should have --%s flag", name)
	}
	assert.Equal(t, "0", batchCmd.Flags().Lookup("concurrency").DefValue)
}

func TestBatchCmd_Table(t *testing.T) {
	cfg = testConfig()
	batchInput = writeDeals(t, sampleDeals)

	out, err := runBatch(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "$250,000.00")
	assert.Contains(t, out, "ebitda: Please enter a valid number")
	assert.Contains(t, out, "3 rows: 2 ok, 1 failed. Total fees $350,000.00")
}

func TestBatchCmd_JSON(t *testing.T) {
	cfg = testConfig()
	batchInput = writeDeals(t, sampleDeals)
	batchFormat = "json"
	batchVariant = "double"

	out, err := runBatch(t)
	require.NoError(t, err)

	var got struct {
		Summary struct {
			Succeeded int     `json:"succeeded"`
			TotalFee  float64 `json:"total_fee"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary.Succeeded)
	// both rows resolve to double: 500k + 100k
	assert.InDelta(t, 600_000, got.Summary.TotalFee, 1e-6)
}

func TestBatchCmd_XLSXOutputInferredFromExtension(t *testing.T) {
	cfg = testConfig()
	batchInput = writeDeals(t, sampleDeals)
	path := filepath.Join(t.TempDir(), "fees.xlsx")
	batchOutput = path

	out, err := runBatch(t)
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Fees"]
	require.True(t, ok)
	assert.Len(t, sheet.Rows, 4)
}

func TestBatchCmd_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
		msg   string
	}{
		{"missing input", func(t *testing.T) { batchInput = filepath.Join(t.TempDir(), "none.csv") }, "read deals"},
		{"xlsx to stdout", func(t *testing.T) {
			batchInput = writeDeals(t, sampleDeals)
			batchFormat = "xlsx"
		}, "xlsx output requires --output"},
		{"bad variant", func(t *testing.T) {
			batchInput = writeDeals(t, sampleDeals)
			batchVariant = "triple"
		}, "unknown variant"},
		{"missing column", func(t *testing.T) { batchInput = writeDeals(t, "name,ebitda\nA,1\n") }, `missing required column "multiple"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = testConfig()
			tt.setup(t)

			_, err := runBatch(t)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
