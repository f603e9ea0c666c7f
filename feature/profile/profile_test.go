package profile

import (
	"os"
	"path/filepath"
	"testing"

	"csv-importer/core/reconcile"
	"csv-importer/core/server"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersProfile() Profile {
	return Profile{
		Name:  "users",
		Table: "users",
		Key:   []string{"email"},
		Fields: []Field{
			{Column: 0, Attribute: "email", Transform: TransformLower, Unique: true, Required: true},
			{Column: 1, Attribute: "name", Transform: TransformTrim},
			{Column: 2, Attribute: "balance", Transform: TransformDecimal},
			{Column: 3, Attribute: "active", Transform: TransformBool},
			{Column: 4, Attribute: "age", Transform: TransformInt},
			{Column: 5, Attribute: "note", Transform: TransformNullIfEmpty},
		},
		SkipIfEmpty: []int{0},
	}
}

func TestProfile_Config(t *testing.T) {
	p := usersProfile()
	cfg, err := p.Config(Defaults{MaxChunkSize: 500, CollisionPolicy: "reject", RequiredPolicy: "skip_record"})
	require.NoError(t, err)

	assert.Equal(t, "users", cfg.Table)
	assert.Equal(t, 500, cfg.MaxChunkSize)
	assert.Equal(t, reconcile.RejectCollisions, cfg.Collisions)
	assert.Equal(t, reconcile.RequiredSkipRecord, cfg.Required)

	row := reconcile.Row{"A@X.io", "  Ann ", "10.50", "1", "42", ""}
	values := reconcile.Values(cfg.Fields, row)
	assert.Equal(t, "a@x.io", values["email"])
	assert.Equal(t, "Ann", values["name"])
	assert.True(t, decimal.RequireFromString("10.5").Equal(values["balance"].(decimal.Decimal)))
	assert.Equal(t, true, values["active"])
	assert.Equal(t, int64(42), values["age"])
	assert.Nil(t, values["note"])

	assert.Equal(t, []string{"email"}, reconcile.UniqueAttributes(cfg.Fields))
	assert.True(t, cfg.Skip(reconcile.Row{" "}))
	assert.False(t, cfg.Skip(row))
}

func TestProfile_ConfigOverridesDefaults(t *testing.T) {
	p := usersProfile()
	p.MaxChunkSize = 10
	p.CollisionPolicy = "first_write_wins"

	cfg, err := p.Config(Defaults{MaxChunkSize: 500, CollisionPolicy: "reject"})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxChunkSize)
	assert.Equal(t, reconcile.FirstWriteWins, cfg.Collisions)
	assert.Equal(t, reconcile.RequiredPolicy(""), cfg.Required)
}

func TestProfile_ConfigDefaultChunkSize(t *testing.T) {
	p := usersProfile()
	cfg, err := p.Config(Defaults{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.DefaultMaxChunkSize, cfg.MaxChunkSize)
}

func TestProfile_KeysAreNormalised(t *testing.T) {
	p := Profile{
		Name:  "items",
		Table: "items",
		Key:   []string{"code", "sprite"},
		Fields: []Field{
			{Column: 0, Attribute: "code", Transform: TransformUpper},
			{Column: 1, Attribute: "sprite", Transform: TransformInt},
		},
	}
	cfg, err := p.Config(Defaults{})
	require.NoError(t, err)

	csvKey := cfg.CSVKey(reconcile.Row{"ab", "007"})
	rowKey := cfg.RowKey(reconcile.PersistedRow{"code": []byte("AB"), "sprite": int64(7)})

	assert.Equal(t, rowKey, csvKey)
	assert.NotEqual(t, csvKey, cfg.CSVKey(reconcile.Row{"ab", "8"}))
}

func TestProfile_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   string
	}{
		{"key not mapped", func(p *Profile) { p.Key = []string{"missing"} }, "key attribute missing is not a mapped field"},
		{"duplicate attribute", func(p *Profile) { p.Fields[1].Attribute = "email" }, "duplicate attribute email"},
		{"unknown transform", func(p *Profile) { p.Fields[1].Transform = "reverse" }, `unknown transform "reverse"`},
		{"bad policy", func(p *Profile) { p.RequiredPolicy = "ignore" }, "required_policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := usersProfile()
			tt.mutate(&p)
			_, err := p.Config(Defaults{})
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestProfile_Attributes(t *testing.T) {
	p := usersProfile()
	p.Match = []string{"id", "email"}
	assert.Equal(t, []string{"email", "name", "balance", "active", "age", "note", "id"}, p.Attributes())
}

func TestTransforms(t *testing.T) {
	tests := []struct {
		transform string
		in        string
		want      any
	}{
		{"", " x ", " x "},
		{TransformNone, " x ", " x "},
		{TransformTrim, " x ", "x"},
		{TransformLower, "AbC", "abc"},
		{TransformUpper, "AbC", "ABC"},
		{TransformInt, " 12 ", int64(12)},
		{TransformInt, "", nil},
		{TransformInt, "12a", "12a"},
		{TransformDecimal, "", nil},
		{TransformDecimal, "x", "x"},
		{TransformBool, "true", true},
		{TransformBool, "0", false},
		{TransformNullIfEmpty, "  ", nil},
		{TransformNullIfEmpty, "v", "v"},
	}

	for _, tt := range tests {
		t.Run(tt.transform+"/"+tt.in, func(t *testing.T) {
			fn, ok := lookupTransform(tt.transform)
			require.True(t, ok)
			assert.Equal(t, tt.want, fn(tt.in))
		})
	}

	_, ok := lookupTransform("reverse")
	assert.False(t, ok)
}

func TestNewRegistry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, err := NewRegistry(usersProfile(), Furniture(server.EmulatorArcturus))
		require.NoError(t, err)

		p, err := r.Get("users")
		require.NoError(t, err)
		assert.Equal(t, "users", p.Table)

		names := []string{}
		for _, p := range r.List() {
			names = append(names, p.Name)
		}
		assert.Equal(t, []string{"furniture", "users"}, names)
	})

	t.Run("unknown", func(t *testing.T) {
		r, err := NewRegistry()
		require.NoError(t, err)
		_, err = r.Get("nope")
		assert.ErrorIs(t, err, ErrUnknownProfile)
	})

	t.Run("validation", func(t *testing.T) {
		p := usersProfile()
		p.Table = ""
		_, err := NewRegistry(p)
		assert.ErrorContains(t, err, `invalid profile "users"`)

		p = usersProfile()
		p.Fields[0].Transform = "reverse"
		_, err = NewRegistry(p)
		assert.Error(t, err)

		p = usersProfile()
		p.Strategy = "parallel"
		_, err = NewRegistry(p)
		assert.Error(t, err)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := NewRegistry(usersProfile(), usersProfile())
		assert.ErrorContains(t, err, `duplicate profile "users"`)
	})
}

func TestLoad(t *testing.T) {
	yaml := `profiles:
  - name: users
    table: users
    key: [email]
    match: [id]
    strategy: bulk
    skip_if_empty: [0]
    fields:
      - {column: 0, attribute: email, transform: lower, unique: true, required: true}
      - {column: 1, attribute: name, transform: trim}
`
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	r, err := Load(path, server.EmulatorComet)
	require.NoError(t, err)

	users, err := r.Get("users")
	require.NoError(t, err)
	assert.True(t, users.UsesBulk())
	assert.Equal(t, []string{"id"}, users.Match)
	assert.Equal(t, []int{0}, users.SkipIfEmpty)
	require.Len(t, users.Fields, 2)
	assert.True(t, users.Fields[0].Unique)

	furni, err := r.Get(FurnitureProfileName)
	require.NoError(t, err)
	assert.Equal(t, "furniture", furni.Table)
}

func TestLoad_MissingFile(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.NoError(t, err)
	assert.Len(t, r.List(), 1)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - name: broken\n"), 0o600))

	_, err := Load(path, "")
	assert.ErrorContains(t, err, `invalid profile "broken"`)
}

func TestFurniture(t *testing.T) {
	tests := []struct {
		emulator string
		table    string
		walk     string
		hasLay   bool
	}{
		{server.EmulatorArcturus, "items_base", "allow_walk", true},
		{server.EmulatorComet, "furniture", "is_walkable", true},
		{server.EmulatorPlus, "furniture", "is_walkable", false},
		{"", "items_base", "allow_walk", true},
	}

	for _, tt := range tests {
		t.Run(tt.emulator, func(t *testing.T) {
			p := Furniture(tt.emulator)
			assert.Equal(t, tt.table, p.Table)
			assert.Equal(t, []string{"item_name"}, p.Key)

			attrs := map[string]Field{}
			for _, f := range p.Fields {
				attrs[f.Attribute] = f
			}
			assert.Equal(t, FurniCanWalk, attrs[tt.walk].Column)
			_, lay := attrs["allow_lay"]
			_, canLay := attrs["can_lay"]
			assert.Equal(t, tt.hasLay, lay || canLay)

			cfg, err := p.Config(Defaults{})
			require.NoError(t, err)
			assert.True(t, cfg.Skip(reconcile.Row{"1", ""}))
		})
	}
}
