// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChopPrefix_EmptyDataset(t *testing.T) {
	data := []map[string]interface{}{}
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, 0, len(data))
}

func TestChopPrefix_NoAttribute(t *testing.T) {
	data := []map[string]interface{}{
		{"name": "TF_SCOUT_A"},
		{"name": "TF_SCOUT_B"},
	}
	// Should be a no-op
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "TF_SCOUT_A", data[0]["name"])
	assert.Equal(t, "TF_SCOUT_B", data[1]["name"])
}

func TestChopPrefix_NoCommonSegments(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "A_X_Y"},
		{"apiname": "B_X_Y"},
		{"apiname": "C_X_Y"},
	}
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "A_X_Y", data[0]["apiname"])
	assert.Equal(t, "B_X_Y", data[1]["apiname"])
	assert.Equal(t, "C_X_Y", data[2]["apiname"])
}

func TestChopPrefix_OneCommonSegmentOnly(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "TF_A"},
		{"apiname": "TF_B"},
		{"apiname": "L4D_C"},
	}
	// Only one common segment; must be at least 2 to chop
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "TF_A", data[0]["apiname"])
	assert.Equal(t, "TF_B", data[1]["apiname"])
	assert.Equal(t, "L4D_C", data[2]["apiname"])
}

func TestChopPrefix_Threshold(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "TF_SCOUT_FIRST_BLOOD"},
		{"apiname": "TF_SCOUT_DOUBLE_JUMPS"},
		{"apiname": "TF_SCOUT_STEAL_SANDWICH"},
		{"apiname": "TF_SOLDIER_ROCKET_JUMP"},
	}
	// 3 of 4 share TF_SCOUT so those are chopped. The fourth keeps its name.
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "..FIRST_BLOOD", data[0]["apiname"])
	assert.Equal(t, "..DOUBLE_JUMPS", data[1]["apiname"])
	assert.Equal(t, "..STEAL_SANDWICH", data[2]["apiname"])
	assert.Equal(t, "TF_SOLDIER_ROCKET_JUMP", data[3]["apiname"])
}

func TestChopPrefix_PartialMatchesDifferentLengths(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "a.b.c"},
		{"apiname": "a.b"},
		{"apiname": "a.b.c.d"},
		{"apiname": "x.y.z"},
	}
	// The longest prefix meeting the threshold is a.b.c, so only values that
	// continue past it are shortened.
	chopPrefix(data, "apiname", ".")
	assert.Equal(t, "a.b.c", data[0]["apiname"])
	assert.Equal(t, "a.b", data[1]["apiname"])
	assert.Equal(t, "..d", data[2]["apiname"])
	assert.Equal(t, "x.y.z", data[3]["apiname"])
}

func TestChopPrefix_ExactPrefixUnchanged(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "TF_MEDIC"},
		{"apiname": "TF_MEDIC_UBER"},
		{"apiname": "TF_MEDIC_HEAL"},
	}
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "TF_MEDIC", data[0]["apiname"])
	assert.Equal(t, "..UBER", data[1]["apiname"])
	assert.Equal(t, "..HEAL", data[2]["apiname"])
}

func TestChopPrefix_SingleEntry_NoChange(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "ONLY_ONE"},
	}
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "ONLY_ONE", data[0]["apiname"])
}

func TestChopPrefix_NonStringValues_Ignored(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": 123},
		{"apiname": "TF_SPY_A"},
		{"apiname": "TF_SPY_B"},
		{"apiname": "TF_SPY_C"},
	}
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, 123, data[0]["apiname"])
	assert.Equal(t, "..A", data[1]["apiname"])
	assert.Equal(t, "..C", data[3]["apiname"])
}

func TestChopPrefix_SomeMissingAttribute(t *testing.T) {
	data := []map[string]interface{}{
		{"apiname": "TF_SPY_A"},
		{"name": "no-apiname"},
		{"apiname": "TF_SPY_B"},
		{"apiname": "TF_SPY_C"},
	}
	chopPrefix(data, "apiname", "_")
	assert.Equal(t, "..A", data[0]["apiname"])
	assert.Equal(t, "no-apiname", data[1]["name"])
	assert.NotContains(t, data[1], "apiname")
	assert.Equal(t, "..B", data[2]["apiname"])
}
