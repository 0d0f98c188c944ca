package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCommitID_Deterministic(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{"a.txt": []byte("hello")}

	id1 := GenerateCommitID("first", ts, "", snap, 0)
	id2 := GenerateCommitID("first", ts, "", snap, 0)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, CommitIDLength)
	assert.True(t, IsCommitID(id1))
}

func TestGenerateCommitID_InputsChangeID(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{"a.txt": []byte("hello")}
	base := GenerateCommitID("first", ts, "", snap, 0)

	assert.NotEqual(t, base, GenerateCommitID("first", ts, "", snap, 1), "salt")
	assert.NotEqual(t, base, GenerateCommitID("first", ts, "abcd1234", snap, 0), "parent")
	assert.NotEqual(t, base, GenerateCommitID("first", ts, "", Snapshot{"a.txt": []byte("bye")}, 0), "content")
	assert.NotEqual(t, base, GenerateCommitID("first", ts.Add(time.Nanosecond), "", snap, 0), "timestamp")
}

func TestIsCommitPrefix(t *testing.T) {
	assert.True(t, IsCommitPrefix("abcd"))
	assert.True(t, IsCommitPrefix("abcd1234"))
	assert.False(t, IsCommitPrefix("abc"))
	assert.False(t, IsCommitPrefix("abcd12345"))
	assert.False(t, IsCommitPrefix("main"))
}

func TestValidateBranchName(t *testing.T) {
	valid := []string{"main", "feature-x", "v1.2", "fix_123"}
	for _, name := range valid {
		assert.NoError(t, ValidateBranchName(name), name)
	}

	invalid := []string{"", "HEAD", ".", "..", "a..b", "-x", "feat/x", "a\\b", "has space", "tab\tname", "nul\x00"}
	for _, name := range invalid {
		assert.Error(t, ValidateBranchName(name), "%q", name)
	}
}

func TestSnapshot_PathsSorted(t *testing.T) {
	s := Snapshot{"b": nil, "a/z": nil, "a": nil}
	assert.Equal(t, []string{"a", "a/z", "b"}, s.Paths())
}

func TestSnapshot_Equal(t *testing.T) {
	a := Snapshot{"x": []byte("1"), "y": []byte("2")}
	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(Snapshot{"x": []byte("1")}))
	assert.False(t, a.Equal(Snapshot{"x": []byte("1"), "y": []byte("3")}))
}

func TestSnapshot_DigestOrderIndependent(t *testing.T) {
	a := Snapshot{"x": []byte("1"), "y": []byte("2")}
	b := Snapshot{"y": []byte("2"), "x": []byte("1")}
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Empty(t, Snapshot{}.Digest())
}

func TestApplyStaged(t *testing.T) {
	base := Snapshot{"keep": []byte("k"), "gone": []byte("g"), "edit": []byte("old")}
	out := ApplyStaged(base, []*StagedEntry{
		{Path: "edit", Content: []byte("new")},
		{Path: "gone", Deleted: true},
		{Path: "added", Content: []byte("a")},
	})

	assert.Equal(t, Snapshot{"keep": []byte("k"), "edit": []byte("new"), "added": []byte("a")}, out)
	assert.Equal(t, []byte("old"), base["edit"], "base must not be modified")
}

func TestCommit_Helpers(t *testing.T) {
	c := &Commit{ID: "abcdef12", Message: "subject\n\nbody"}
	assert.Equal(t, "abcdef1", c.ShortID())
	assert.True(t, c.IsRoot())
	assert.Equal(t, "subject", c.Subject())

	h := &HeadState{BranchName: "main"}
	assert.True(t, h.IsUnborn())
	h.CommitID = "abcdef12"
	assert.False(t, h.IsUnborn())
}
