package oas

// Refs returns the component names referenced anywhere under s, in walk order.
// Names may repeat.
func (s *Schema) Refs() []string {
	var names []string
	walkSchema(s, func(name string) { names = append(names, name) })
	return names
}

// Refs returns the component names referenced by r, including r itself.
func (r *SchemaRef) Refs() []string {
	var names []string
	walkRef(r, func(name string) { names = append(names, name) })
	return names
}

// Refs returns the component names referenced by the operation's parameters,
// request body and responses.
func (o *Operation) Refs() []string {
	var names []string
	visit := func(name string) { names = append(names, name) }
	for _, p := range o.Parameters {
		walkRef(p.Schema, visit)
	}
	if o.RequestBody != nil {
		for _, mt := range o.RequestBody.Content {
			walkRef(mt.Schema, visit)
		}
	}
	for _, code := range o.Responses.Codes() {
		for _, mt := range o.Responses[code].Content {
			walkRef(mt.Schema, visit)
		}
	}
	return names
}

func walkRef(r *SchemaRef, visit func(string)) {
	if r == nil {
		return
	}
	if r.Ref != "" {
		visit(r.Ref)
		return
	}
	walkSchema(r.Value, visit)
}

func walkSchema(s *Schema, visit func(string)) {
	if s == nil {
		return
	}
	walkRef(s.Items, visit)
	walkRef(s.AdditionalProperties, visit)
	for _, p := range s.Properties.All() {
		walkRef(p, visit)
	}
	for _, r := range s.OneOf {
		walkRef(r, visit)
	}
	for _, r := range s.AllOf {
		walkRef(r, visit)
	}
}
