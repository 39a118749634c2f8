// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dbxport

import (
	"github.com/apache/arrow/go/v17/arrow"

	"github.com/ClusterCockpit/cc-dbxport/arrowcol"
	"github.com/ClusterCockpit/cc-dbxport/config"
	"github.com/ClusterCockpit/cc-dbxport/rowio"
)

// collectRowsToArrow drains reader into arrow.Records using the configured
// minimum batch size. ResultReader already implements rowio.RowsReader's
// three methods, so no adaptor type is needed.
func collectRowsToArrow(reader ResultReader) ([]arrow.Record, error) {
	return rowio.CollectRowsToArrow(reader, func(schema *arrow.Schema) rowio.RowWriterLike {
		return arrowcol.NewRowWriter(schema, config.Keys.MinBatchSize)
	})
}
