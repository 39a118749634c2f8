// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellProducerIntFromBytes(t *testing.T) {
	p := &cellProducer{v: []byte("42")}
	v, err := p.ProduceInt32()
	require.NoError(t, err)
	require.Equal(t, int32(42), v)
}

func TestCellProducerFloatFromBytes(t *testing.T) {
	p := &cellProducer{v: []byte("3.5")}
	v, err := p.ProduceFloat64()
	require.NoError(t, err)
	require.Equal(t, 3.5, v)
}

func TestCellProducerNull(t *testing.T) {
	p := &cellProducer{v: nil}
	v, err := p.ProduceInt32Opt()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellProducerNonNullableProduceFailsOnNull(t *testing.T) {
	p := &cellProducer{v: nil}

	_, err := p.ProduceInt32()
	require.Error(t, err)

	_, err = p.ProduceBool()
	require.Error(t, err)

	_, err = p.ProduceFloat64()
	require.Error(t, err)

	_, err = p.ProduceString()
	require.Error(t, err)

	_, err = p.ProduceBinary()
	require.Error(t, err)
}

func TestCellProducerStringFromBytes(t *testing.T) {
	p := &cellProducer{v: []byte("hello")}
	s, err := p.ProduceString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestNormalizeMySQLDuration(t *testing.T) {
	require.Equal(t, "12h34m56s", normalizeMySQLDuration("12:34:56"))
	require.Equal(t, "-1h02m03s", normalizeMySQLDuration("-1:02:03"))
}
