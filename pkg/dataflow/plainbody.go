package dataflow

// plainBody adapts an ordinary RecipeFunc into the Step protocol: wait
// once for every argument that isn't already available, then call fn and
// yield its result as Done. This covers the common case where a recipe
// has no reason to forward to another Input or to wait in stages.
type plainBody struct {
	fn     RecipeFunc
	args   []Input
	waited bool
}

func (b *plainBody) Step() (Step, error) {
	if !b.waited {
		b.waited = true
		var pending []Input
		for _, a := range b.args {
			if !a.Available() {
				pending = append(pending, a)
			}
		}
		if len(pending) > 0 {
			return WaitStep(pending...), nil
		}
	}

	vals := make([]any, len(b.args))
	for i, a := range b.args {
		v, err := a.Get()
		if err != nil {
			return Step{}, err
		}
		vals[i] = v
	}
	v, err := b.fn(vals)
	if err != nil {
		return Step{}, err
	}
	return DoneStep(v), nil
}
