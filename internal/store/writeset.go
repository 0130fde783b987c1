package store

// WriteSet collects every row mutation belonging to one logical change so
// that they travel to the store together. The membership row and the list
// row of a create, or an item insert and its list's sort-order rewrite, are
// always placed in the same write-set; a code path that submits one without
// the other is a bug. Partial application on store failure remains a
// residual risk of the batch model itself and is documented, not hidden.
type WriteSet struct {
	stmts []Bound
}

// Add appends a statement to the set.
func (w *WriteSet) Add(stmt string, args ...interface{}) {
	w.stmts = append(w.stmts, Bound{Stmt: stmt, Args: args})
}

// Len returns the number of statements staged.
func (w *WriteSet) Len() int { return len(w.stmts) }

// Statements returns the staged statements in insertion order. Callers
// must not rely on the store applying them in that order.
func (w *WriteSet) Statements() []Bound { return w.stmts }
