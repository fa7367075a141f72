package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/mathdrill/ent/schema"
)

// journalSchemas lists the ent schemas backing the journal tables, with the
// table name and index prefix ent's code generator derives for each.
var journalSchemas = []struct {
	table  string
	prefix string
	schema ent.Interface
}{
	{"session_events", "sessionevent", entschema.SessionEvent{}},
	{"answer_events", "answerevent", entschema.AnswerEvent{}},
}

// migrate creates or updates the journal tables from the ent schemas.
// It is the same Atlas-backed migration ent's generated Schema.Create runs.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := journalTables()
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// journalTables converts every journal schema into a migration table.
func journalTables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(journalSchemas))
	for _, js := range journalSchemas {
		t, err := tableFromSchema(js.table, js.prefix, js.schema)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", js.table, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// tableFromSchema builds the table ent would generate for s: an
// autoincrement id, the mixin fields, then the schema's own fields.
func tableFromSchema(name, prefix string, s ent.Interface) (*schema.Table, error) {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Comment:  d.Comment,
		}
		// Function defaults such as time.Now are applied by the writer.
		switch v := d.Default.(type) {
		case int, int64, string, bool:
			c.Default = v
		}
		t.Columns = append(t.Columns, c)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*schema.Column, 0, len(d.Fields))
		for _, fieldName := range d.Fields {
			c := findColumn(t, fieldName)
			if c == nil {
				return nil, fmt.Errorf("index on unknown field %q", fieldName)
			}
			cols = append(cols, c)
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    prefix + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t, nil
}

func findColumn(t *schema.Table, name string) *schema.Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// withPragmas adds connection pragmas to dsn so every pooled connection
// gets them. Atlas refuses to migrate SQLite with foreign keys off.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
