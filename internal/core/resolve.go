package core

import "fmt"

// Resolve turns a name into an object id, trying — in order — "@" as an
// alias for HEAD, the name itself, then refs/{name}, refs/tags/{name}, and
// refs/heads/{name} as ref paths, and finally a literal 40-hex id, failing
// UnknownName if nothing matches.
func Resolve(refs RefStore, name string) (ID, error) {
	const op = "core.Resolve"

	if name == "@" {
		name = "HEAD"
	}

	candidates := []string{name, "refs/" + name, "refs/tags/" + name, "refs/heads/" + name}
	for _, candidate := range candidates {
		id, err := refs.Resolve(candidate)
		if err == nil {
			return id, nil
		}
	}

	if IsHex40(name) {
		id, err := ParseID(name)
		if err == nil {
			return id, nil
		}
	}

	return "", newErr(op, KindUnknownName, fmt.Errorf("unknown name %q", name))
}
