// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellProducerInt64(t *testing.T) {
	p := &cellProducer{v: int64(42)}
	v, err := p.ProduceInt64()
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestCellProducerNullOpt(t *testing.T) {
	p := &cellProducer{v: nil}
	v, err := p.ProduceInt64Opt()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellProducerNonNullableProduceFailsOnNull(t *testing.T) {
	p := &cellProducer{v: nil}

	_, err := p.ProduceInt64()
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

func TestCellProducerBoolFromInt64(t *testing.T) {
	p := &cellProducer{v: int64(1)}
	b, err := p.ProduceBool()
	require.NoError(t, err)
	require.True(t, b)

	p = &cellProducer{v: int64(0)}
	b, err = p.ProduceBool()
	require.NoError(t, err)
	require.False(t, b)
}

func TestCellProducerStringFromBytes(t *testing.T) {
	p := &cellProducer{v: []byte("hello")}
	s, err := p.ProduceString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestCellProducerTypeMismatch(t *testing.T) {
	p := &cellProducer{v: "not an int"}
	_, err := p.ProduceInt64Opt()
	require.Error(t, err)
}

func TestCellProducerUnsupportedKind(t *testing.T) {
	p := &cellProducer{v: int64(5)}
	_, err := p.ProduceDate32()
	require.Error(t, err)
}
