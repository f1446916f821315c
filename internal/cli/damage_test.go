package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/doomhost/internal/store"
)

func seedDamageLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "damage.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.WriteSession(ctx, store.Session{ID: "a", Args: []string{"doomhost", "-skill", "1"}, Script: "e1m1"}))
	require.NoError(t, st.WriteSession(ctx, store.Session{ID: "b", Args: []string{"", "-episode", "1"}, Script: "quiet"}))
	for i, amount := range []int{5, 1, 10} {
		require.NoError(t, st.WriteDamage(ctx, store.DamageRecord{SessionID: "a", Seq: int64(i + 1), Amount: amount}))
	}
	return path
}

func TestDamage_ListSessions(t *testing.T) {
	clearEnv(t)
	db := seedDamageLog(t)

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "a  e1m1       count=3 total=16 max=10  args=doomhost -skill 1")
	assert.Contains(t, out.String(), "count=0 total=0 max=0")
}

func TestDamage_ListSessionsJSON(t *testing.T) {
	clearEnv(t)
	db := seedDamageLog(t)

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err)

	var resp struct {
		Data []SessionReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, SessionReport{Session: "a", Script: "e1m1", Args: []string{"doomhost", "-skill", "1"}, Count: 3, Total: 16, Max: 10}, resp.Data[0])
	assert.Equal(t, "b", resp.Data[1].Session)
}

func TestDamage_ShowSession(t *testing.T) {
	clearEnv(t)
	db := seedDamageLog(t)

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "text"}), "--db", db, "--session", "a")
	require.NoError(t, err)
	assert.Equal(t, "   1  5\n   2  1\n   3  10\ncount=3 total=16 max=10\n", out.String())
}

func TestDamage_ShowSessionJSON(t *testing.T) {
	clearEnv(t)
	db := seedDamageLog(t)

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "json"}), "--db", db, "--session", "a")
	require.NoError(t, err)

	var resp struct {
		Data DamageReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, []damageLine{{1, 5}, {2, 1}, {3, 10}}, resp.Data.Events)
	assert.Equal(t, 16, resp.Data.Total)
}

func TestDamage_UnknownSession(t *testing.T) {
	clearEnv(t)
	db := seedDamageLog(t)

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "text"}), "--db", db, "--session", "zzz")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "session not found")
}

func TestDamage_EmptyLog(t *testing.T) {
	clearEnv(t)
	db := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No sessions recorded.\n", out.String())
}

func TestDamage_RequiresDatabase(t *testing.T) {
	clearEnv(t)
	_, _, err := execute(NewDamageCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDamage_DatabaseFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOOMHOST_DB", seedDamageLog(t))

	out, _, err := execute(NewDamageCommand(&RootOptions{Format: "text"}), "--session", "a")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "count=3")
}
