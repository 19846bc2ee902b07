package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	owner, child, grandchild, other *Table

	ownerID, ownerName    *Column
	childOwner, childFlag *Column
	grandOwner            *Column
	otherID               *Column
}

func newFixture() fixture {
	var f fixture
	f.owner = NewDatedTable("owner")
	f.ownerID = f.owner.Define("ownerId", Integer, PrimaryKey())
	f.ownerName = f.owner.Define("name", VarChar(8))

	f.child = NewTable("child")
	f.childOwner = f.child.ForeignKey(f.ownerID, PrimaryKey())
	f.childFlag = f.child.Define("flag", Boolean)

	f.grandchild = NewTable("grandchild")
	f.grandOwner = f.grandchild.ForeignKey(f.childOwner, Nullable())

	f.other = NewTable("other")
	f.otherID = f.other.Define("ownerId", Integer)
	return f
}

func TestResolve_FollowsForeignKeyChain(t *testing.T) {
	f := newFixture()

	assert.Same(t, f.ownerID, f.grandOwner.Source())
	assert.Same(t, f.childOwner, f.grandOwner.References())

	got, err := f.grandchild.Resolve(f.ownerID)
	require.NoError(t, err)
	assert.Same(t, f.grandOwner, got)

	got, err = f.grandchild.Resolve(f.childOwner)
	require.NoError(t, err)
	assert.Same(t, f.grandOwner, got)

	got, err = f.child.Resolve(f.childFlag)
	require.NoError(t, err)
	assert.Same(t, f.childFlag, got)
}

func TestResolve_RejectsForeignColumn(t *testing.T) {
	f := newFixture()

	// same name, unrelated table
	_, err := f.child.Resolve(f.otherID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaViolation))

	_, err = f.child.Resolve(f.ownerName)
	assert.True(t, errors.Is(err, ErrSchemaViolation))

	_, err = f.child.Resolve(nil)
	assert.True(t, errors.Is(err, ErrSchemaViolation))
}

func TestDefine_PanicsOnDuplicateColumn(t *testing.T) {
	table := NewTable("dup")
	table.Define("a", Integer)
	assert.Panics(t, func() { table.Define("a", Float) })
}

func TestCreateStatement(t *testing.T) {
	f := newFixture()
	status := f.child.Define("status", Enum(4, "won", "lost"))

	ddl := f.child.CreateStatement()
	want := `CREATE TABLE IF NOT EXISTS "child" (
	"ownerId" INTEGER NOT NULL,
	"flag" INTEGER CHECK("flag" IN (0, 1)) NOT NULL,
	"status" VARCHAR(4) CHECK("status" IN ('won', 'lost')) NOT NULL,
	PRIMARY KEY ("ownerId"),
	FOREIGN KEY ("ownerId") REFERENCES "owner"("ownerId")
)`
	assert.Equal(t, want, ddl)
	assert.Equal(t, "status", status.Name())

	ownerDDL := f.owner.CreateStatement()
	assert.True(t, strings.HasPrefix(ownerDDL, "CREATE TABLE IF NOT EXISTS \"owner\" (\n\t\"timestamp\" INTEGER NOT NULL,"))

	assert.Contains(t, f.grandchild.CreateStatement(), `"ownerId" INTEGER,`)
	assert.Contains(t, f.grandchild.CreateStatement(), `REFERENCES "child"("ownerId")`)
}

func TestStamp(t *testing.T) {
	f := newFixture()
	f.owner.SetClock(func() time.Time { return time.Unix(1_600_000_000, 0) })

	col, value := f.owner.Stamp()
	require.NotNil(t, col)
	assert.Equal(t, TimestampColumn, col.Name())
	assert.Equal(t, int64(1_600_000_000), value)

	col, _ = f.child.Stamp()
	assert.Nil(t, col)
}

func TestFormat(t *testing.T) {
	side := Enum(4, "red", "blue")

	tests := []struct {
		name    string
		typ     DataType
		value   any
		want    string
		wantErr bool
	}{
		{name: "integer", typ: Integer, value: 42, want: "42"},
		{name: "negative int64", typ: Integer, value: int64(-7), want: "-7"},
		{name: "integer rejects text", typ: Integer, value: "42", wantErr: true},
		{name: "float", typ: Float, value: 1.5, want: "1.5"},
		{name: "float from int", typ: Float, value: 3, want: "3"},
		{name: "boolean true", typ: Boolean, value: true, want: "1"},
		{name: "boolean false", typ: Boolean, value: false, want: "0"},
		{name: "boolean from 1", typ: Boolean, value: 1, want: "1"},
		{name: "boolean rejects 2", typ: Boolean, value: 2, wantErr: true},
		{name: "boolean rejects text", typ: Boolean, value: "yes", wantErr: true},
		{name: "text quote escaped", typ: VarChar(20), value: "O'Neil", want: "'O''Neil'"},
		{name: "text only quotes", typ: VarChar(20), value: "''", want: "''''''"},
		{name: "text too long", typ: VarChar(3), value: "abcd", wantErr: true},
		{name: "text counts runes", typ: VarChar(3), value: "äöü", want: "'äöü'"},
		{name: "text rejects nul", typ: VarChar(8), value: "a\x00b", wantErr: true},
		{name: "enum member", typ: side, value: "red", want: "'red'"},
		{name: "enum non member", typ: side, value: "green", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.typ.Format(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConstraint), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnFormat_Nullability(t *testing.T) {
	f := newFixture()

	got, err := f.grandOwner.Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "NULL", got)

	_, err = f.ownerName.Format(nil)
	assert.True(t, errors.Is(err, ErrConstraint))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"match"`, Quote("match"))
	assert.Equal(t, `"a""b"`, Quote(`a"b`))
}
