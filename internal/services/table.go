package services

import (
	"fmt"

	"github.com/vvka-141/rawload/internal/infer"
	"github.com/vvka-141/rawload/internal/naming"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// DescribeTable derives the target table of ds: the name from its file name,
// one column per dataset column with a normalized identifier and inferred type.
func DescribeTable(ds *rawload.Dataset, schema string, policy rawload.DuplicatePolicy) (rawload.TargetTable, error) {
	name, err := naming.TableName(ds.Source.Name)
	if err != nil {
		return rawload.TargetTable{}, fmt.Errorf("table name: %w", err)
	}

	ids, err := naming.Columns(ds.Labels(), policy)
	if err != nil {
		return rawload.TargetTable{}, err
	}

	columns := make([]rawload.ColumnSchema, len(ds.Columns))
	for i, col := range ds.Columns {
		cl := infer.MapType(col.Values)
		columns[i] = rawload.ColumnSchema{
			Label:      col.Label,
			Identifier: ids[i],
			Type:       cl.Type,
			Layout:     cl.Layout,
		}
	}

	return rawload.TargetTable{Schema: schema, Name: name, Columns: columns}, nil
}
