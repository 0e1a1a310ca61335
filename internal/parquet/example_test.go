package parquet_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cellplot/cellplot/internal/parquet"
	"github.com/cellplot/cellplot/schema"
)

// The written files can be read by DuckDB, pandas (via pyarrow) or Spark.
func ExampleWriteCycleSummariesParquet() {
	dir, err := os.MkdirTemp("", "cellplot-parquet-*")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()

	summaries := []schema.CycleSummary{
		{CycleIndex: 1, IR: schema.Float(0.0167), QDischarge: schema.Float(1.06)},
		{CycleIndex: 2, IR: nil, QDischarge: schema.Float(1.07)},
	}
	rows := parquet.ConvertCycleSummaries("b1c0", summaries)

	path := filepath.Join(dir, "b1c0_summaries.parquet")
	if err := parquet.WriteCycleSummariesParquet(rows, path); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("wrote %d summaries of %s\n", len(rows), rows[0].CellID)
	// Output: wrote 2 summaries of b1c0
}
