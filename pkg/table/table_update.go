package table

// Update overwrites the fields of the row with the given key in place and
// returns whether the row existed.
func (t *Table) Update(key int32, fields []string) (bool, error) {
	if err := t.checkOpen(); err != nil {
		return false, err
	}
	if err := t.validate(fields); err != nil {
		return false, err
	}

	addr, err := t.index.Search(key)
	if err != nil || addr.IsNil() {
		return false, err
	}

	return true, t.writeRecord(addr, record{key: key, fields: fields})
}
