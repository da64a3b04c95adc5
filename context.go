package xlbind

// Context holds the data bound into a workbook and resolves binding keys.
type Context struct {
	data      map[string]any
	evaluator ExpressionEvaluator

	// Cached merged map for expression evaluation.
	// Invalidated (set to nil) whenever data changes.
	cachedMap map[string]any
}

// NewContext creates a Context over data. A nil evaluator selects the
// expr-lang evaluator.
func NewContext(data map[string]any, ev ExpressionEvaluator) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	if ev == nil {
		ev = NewExpressionEvaluator()
	}
	return &Context{data: data, evaluator: ev}
}

// GetVar returns a variable value.
func (c *Context) GetVar(name string) any {
	return c.data[name]
}

// PutVar sets a variable in the data map.
func (c *Context) PutVar(name string, value any) {
	c.data[name] = value
	c.cachedMap = nil
}

// RemoveVar removes a variable from the data map.
func (c *Context) RemoveVar(name string) {
	delete(c.data, name)
	c.cachedMap = nil
}

// ContainsVar returns true if the variable exists.
func (c *Context) ContainsVar(name string) bool {
	_, ok := c.data[name]
	return ok
}

// ToMap returns the data with the built-in functions added. User data wins
// over built-ins of the same name.
func (c *Context) ToMap() map[string]any {
	if c.cachedMap != nil {
		return c.cachedMap
	}
	m := make(map[string]any, len(c.data)+1)
	for k, v := range c.data {
		m[k] = v
	}
	if _, ok := m["hyperlink"]; !ok {
		m["hyperlink"] = NewHyperlink
	}
	c.cachedMap = m
	return m
}

// Evaluate evaluates an expression against the data.
func (c *Context) Evaluate(expression string) (any, error) {
	return c.evaluator.Evaluate(expression, c.ToMap())
}

// Lookup resolves a binding key. An exact data key wins; otherwise the key is
// evaluated as an expression when its leading identifier names a data key.
// ok is false when the key does not refer to the data at all.
func (c *Context) Lookup(key string) (value any, ok bool, err error) {
	if v, found := c.data[key]; found {
		return v, true, nil
	}
	root := rootIdent(key)
	if root == "" || root == key || !c.ContainsVar(root) {
		return nil, false, nil
	}
	v, err := c.Evaluate(key)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// rootIdent returns the identifier that key starts with.
func rootIdent(key string) string {
	i := 0
	for i < len(key) {
		b := key[i]
		if b == '_' || isLetter(b) || (i > 0 && isDigit(b)) {
			i++
			continue
		}
		break
	}
	return key[:i]
}
