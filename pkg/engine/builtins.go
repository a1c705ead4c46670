package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/plan"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: min-length -> min_length
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a plan.Shape so it can be returned from `box` or
// `cylinder` and consumed by `perimeter` and `obstacle`.
type sexpShape struct {
	shape plan.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	switch s.shape.Kind {
	case plan.ShapeCylinder:
		return fmt.Sprintf("(cylinder :radius %g :length %g)", s.shape.Radius, s.shape.Length)
	default:
		return fmt.Sprintf("(box %g %g %g)", s.shape.Size.X, s.shape.Size.Y, s.shape.Size.Z)
	}
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value; treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt64 extracts an int64 from a SexpInt.
func toInt64(s zygo.Sexp) (int64, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a geom.Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a plan.Shape from a sexpShape.
func toShape(s zygo.Sexp) (plan.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.shape, nil
	}
	return plan.Shape{}, fmt.Errorf("expected box or cylinder, got %T (%s)", s, s.SexpString(nil))
}

// setFloat assigns a keyword number to *dst when present.
func setFloat(pa kwArgs, name string, dst *float64) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins populate the provided plan during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *plan.Plan) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v geom.Vec3
		for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			*dst = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (box 40 40 40)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires exactly 3 dimensions, got %d", len(args))
		}
		sh := plan.Shape{Kind: plan.ShapeBox}
		for i, dst := range []*float64{&sh.Size.X, &sh.Size.Y, &sh.Size.Z} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			*dst = f
		}
		return &sexpShape{shape: sh}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :radius 2 :length 10)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sh := plan.Shape{Kind: plan.ShapeCylinder}
		if err := setFloat(pa, "radius", &sh.Radius); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if err := setFloat(pa, "length", &sh.Length); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpShape{shape: sh}, nil
	})

	// -----------------------------------------------------------------------
	// (perimeter (box 40 40 40) :at (vec3 0 0 10))
	// -----------------------------------------------------------------------
	env.AddFunction("perimeter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("perimeter requires a shape argument")
		}
		if p.Perimeter != nil {
			return zygo.SexpNull, fmt.Errorf("perimeter already defined")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("perimeter: %w", err)
		}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("perimeter: at: %w", err)
			}
			sh.Position = at
		}
		p.Perimeter = &sh
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (obstacle (cylinder :radius 2 :length 10) :at (vec3 5 0 5))
	// -----------------------------------------------------------------------
	env.AddFunction("obstacle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("obstacle requires a shape argument")
		}
		sh, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("obstacle: %w", err)
		}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("obstacle: at: %w", err)
			}
			sh.Position = at
		}
		p.Obstacles = append(p.Obstacles, sh)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (source "feed-a" :at (vec3 -5 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("source", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("source requires a name argument")
		}
		srcName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("source: name: %w", err)
		}
		src := plan.Source{Name: srcName}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("source: at: %w", err)
			}
			src.Position = at
		}
		p.Sources = append(p.Sources, src)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (pipes :radius 0.5 :min-length 2 :max-length 6 :seed 7)
	//
	// :radius sets both ends of the radius range; :min-radius and
	// :max-radius set them individually.
	// -----------------------------------------------------------------------
	env.AddFunction("pipes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pipes: radius: %w", err)
			}
			p.MinRadius, p.MaxRadius = f, f
		}
		if err := setFloat(pa, "min-radius", &p.MinRadius); err != nil {
			return zygo.SexpNull, fmt.Errorf("pipes: %w", err)
		}
		if err := setFloat(pa, "max-radius", &p.MaxRadius); err != nil {
			return zygo.SexpNull, fmt.Errorf("pipes: %w", err)
		}
		if err := setFloat(pa, "min-length", &p.MinLength); err != nil {
			return zygo.SexpNull, fmt.Errorf("pipes: %w", err)
		}
		if err := setFloat(pa, "max-length", &p.MaxLength); err != nil {
			return zygo.SexpNull, fmt.Errorf("pipes: %w", err)
		}
		if v, ok := pa.kw["seed"]; ok {
			n, err := toInt64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pipes: seed: %w", err)
			}
			p.Seed = n
		}
		return zygo.SexpNull, nil
	})
}
