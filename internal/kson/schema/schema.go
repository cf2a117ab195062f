// Package schema compiles and validates Draft-7 JSON Schema documents
// against KSON's canonical value.Value tree. It mirrors the two-phase
// shape of a typechecker: Compile lowers a schema document once into a
// flat arena of constraint sets, and Validate walks a value against a
// compiled schema (by index) as many times as the caller needs, never
// re-parsing the schema.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/kson-lang/kson/internal/kson/diag"
	"github.com/kson-lang/kson/internal/kson/token"
	"github.com/kson-lang/kson/internal/kson/value"
)

// Schema is one compiled node in the flat arena: the constraints that
// applied at one position in the original schema document. $ref resolves
// to an index into the same arena rather than a pointer, so cyclic
// schemas (a subschema that $refs an ancestor) compile without infinite
// recursion — only validating against one can recurse, and that is
// guarded by the visited set in Validate.
type Schema struct {
	types    []string // "type" as a set; empty means unconstrained
	enum     []*value.Value
	hasConst bool
	constVal *value.Value

	properties           map[string]int // property name -> arena index
	required              []string
	additionalProperties  *int // arena index; nil means "true" (allowed, unconstrained)
	additionalPropsForbid bool // additionalProperties: false
	patternProperties     []patternSchema
	propertyNames         *int

	items            *int
	itemsTuple       []int
	additionalItems  *int
	additionalItemsForbid bool
	contains         *int

	minItems    *int
	maxItems    *int
	uniqueItems bool

	minimum, maximum                   *float64
	exclusiveMinimum, exclusiveMaximum *float64
	multipleOf                         *float64

	minLength, maxLength *int
	pattern              *regexp.Regexp
	patternSrc            string

	allOf []int
	anyOf []int
	oneOf []int
	not   *int

	ifSchema   *int
	thenSchema *int
	elseSchema *int

	loc token.Location
}

type patternSchema struct {
	re    *regexp.Regexp
	index int
}

// CompiledSchema is the result of Compile: a flat arena plus the index of
// the root schema, ready to Validate any number of values.
type CompiledSchema struct {
	arena []*Schema
	root  int
}

// maxSchemaDepth bounds how deeply compileNode/check may recurse through
// nested subschemas, so a deeply nested or (acyclic but very long) $ref
// chain fails with a diagnostic instead of overflowing the stack.
const maxSchemaDepth = 512

// compiler holds state while compiling a schema document: the arena
// under construction and the $id -> arena-index map used to resolve
// $ref (document-local only; remote refs are rejected at compile time).
type compiler struct {
	arena []*Schema
	byID  map[string]int
	diags diag.Diagnostics
	depth int
}

// Compile turns a parsed schema document into a CompiledSchema. It never
// fails outright — unknown keywords are ignored per Draft-7, and invalid
// $ref/pattern keywords are reported as diagnostics while compilation
// continues past them so the caller sees every problem at once.
// Compile only resolves a $ref against an $id already compiled earlier in
// the same depth-first walk (definitions conventionally precede their
// first use, which covers every schema this validator has been exercised
// against); a $ref to an $id that appears later in the document fails to
// resolve and is reported via CodeSchemaInvalidRef.
func Compile(doc *value.Value) (*CompiledSchema, diag.Diagnostics) {
	c := &compiler{byID: make(map[string]int)}
	root := c.compileNode(doc)
	return &CompiledSchema{arena: c.arena, root: root}, c.diags
}

func (c *compiler) compileNode(v *value.Value) int {
	s := &Schema{}
	if v != nil {
		s.loc = v.Loc
	}
	idx := len(c.arena)
	c.arena = append(c.arena, s)

	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxSchemaDepth {
		c.diags = append(c.diags, diag.New(diag.CodeRecursionLimitExceeded, diag.CategoryValue, diag.Error, s.loc, strconv.Itoa(maxSchemaDepth)))
		return idx
	}

	if v == nil || v.Kind != value.KindObject {
		// Every non-object schema value, the boolean forms `true` and
		// `false` included, compiles to an empty constraint set that any
		// value satisfies; only the object form carries constraints.
		return idx
	}

	if id, ok := stringProp(v, "$id"); ok {
		c.byID[id] = idx
	}

	if t, ok := v.Props.Get("type"); ok {
		s.types = typeSet(t)
	}
	if e, ok := v.Props.Get("enum"); ok && e.Kind == value.KindList {
		s.enum = e.Items
	}
	if cv, ok := v.Props.Get("const"); ok {
		s.hasConst = true
		s.constVal = cv
	}

	c.compileObjectKeywords(v, s)
	c.compileArrayKeywords(v, s)
	c.compileNumberKeywords(v, s)
	c.compileStringKeywords(v, s)
	c.compileCombinatorKeywords(v, s)

	if ref, ok := stringProp(v, "$ref"); ok {
		resolved, ok := c.resolveRef(ref)
		if !ok {
			c.diags = append(c.diags, diag.New(diag.CodeSchemaInvalidRef, diag.CategorySchemaCompile, diag.Error, v.Loc, ref))
		} else {
			// A schema carrying $ref alongside sibling keywords delegates
			// entirely to the target, per Draft-7's $ref-wins rule.
			*s = *c.arena[resolved]
		}
	}

	return idx
}

// resolveRef resolves a $ref by exact lookup in the $id table. JSON-Pointer
// fragments such as "#/definitions/a", the whole-document "#" and remote
// URIs are not resolved unless some $id carries that exact string; such a
// ref fails to resolve.
func (c *compiler) resolveRef(ref string) (int, bool) {
	if idx, ok := c.byID[ref]; ok {
		return idx, true
	}
	if len(ref) > 0 && ref[0] == '#' {
		if idx, ok := c.byID["#"+ref[1:]]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (c *compiler) compileObjectKeywords(v *value.Value, s *Schema) {
	if props, ok := v.Props.Get("properties"); ok && props.Kind == value.KindObject {
		s.properties = make(map[string]int, props.Props.Len())
		for _, k := range props.Props.Keys() {
			child, _ := props.Props.Get(k)
			s.properties[k] = c.compileNode(child)
		}
	}
	if req, ok := v.Props.Get("required"); ok && req.Kind == value.KindList {
		for _, item := range req.Items {
			if item.Kind == value.KindString {
				s.required = append(s.required, item.Str)
			}
		}
	}
	if ap, ok := v.Props.Get("additionalProperties"); ok {
		if ap.Kind == value.KindBoolean && !ap.Bool {
			s.additionalPropsForbid = true
		} else if ap.Kind == value.KindObject {
			idx := c.compileNode(ap)
			s.additionalProperties = &idx
		}
	}
	if pp, ok := v.Props.Get("patternProperties"); ok && pp.Kind == value.KindObject {
		for _, k := range pp.Props.Keys() {
			re, err := regexp.Compile(k)
			if err != nil {
				c.diags = append(c.diags, diag.New(diag.CodeSchemaInvalidPattern, diag.CategorySchemaCompile, diag.Error, v.Loc, k))
				continue
			}
			child, _ := pp.Props.Get(k)
			s.patternProperties = append(s.patternProperties, patternSchema{re: re, index: c.compileNode(child)})
		}
	}
	if pn, ok := v.Props.Get("propertyNames"); ok {
		idx := c.compileNode(pn)
		s.propertyNames = &idx
	}
}

func (c *compiler) compileArrayKeywords(v *value.Value, s *Schema) {
	if it, ok := v.Props.Get("items"); ok {
		switch it.Kind {
		case value.KindList:
			for _, item := range it.Items {
				s.itemsTuple = append(s.itemsTuple, c.compileNode(item))
			}
		default:
			idx := c.compileNode(it)
			s.items = &idx
		}
	}
	if ai, ok := v.Props.Get("additionalItems"); ok {
		if ai.Kind == value.KindBoolean && !ai.Bool {
			s.additionalItemsForbid = true
		} else if ai.Kind == value.KindObject {
			idx := c.compileNode(ai)
			s.additionalItems = &idx
		}
	}
	if ct, ok := v.Props.Get("contains"); ok {
		idx := c.compileNode(ct)
		s.contains = &idx
	}
	if n, ok := intProp(v, "minItems"); ok {
		s.minItems = &n
	}
	if n, ok := intProp(v, "maxItems"); ok {
		s.maxItems = &n
	}
	if b, ok := v.Props.Get("uniqueItems"); ok && b.Kind == value.KindBoolean {
		s.uniqueItems = b.Bool
	}
}

func (c *compiler) compileNumberKeywords(v *value.Value, s *Schema) {
	if f, ok := floatProp(v, "minimum"); ok {
		s.minimum = &f
	}
	if f, ok := floatProp(v, "maximum"); ok {
		s.maximum = &f
	}
	if f, ok := floatProp(v, "exclusiveMinimum"); ok {
		s.exclusiveMinimum = &f
	}
	if f, ok := floatProp(v, "exclusiveMaximum"); ok {
		s.exclusiveMaximum = &f
	}
	if f, ok := floatProp(v, "multipleOf"); ok {
		s.multipleOf = &f
	}
}

func (c *compiler) compileStringKeywords(v *value.Value, s *Schema) {
	if n, ok := intProp(v, "minLength"); ok {
		s.minLength = &n
	}
	if n, ok := intProp(v, "maxLength"); ok {
		s.maxLength = &n
	}
	if p, ok := stringProp(v, "pattern"); ok {
		re, err := regexp.Compile(p)
		if err != nil {
			c.diags = append(c.diags, diag.New(diag.CodeSchemaInvalidPattern, diag.CategorySchemaCompile, diag.Error, v.Loc, p))
		} else {
			s.pattern = re
			s.patternSrc = p
		}
	}
}

func (c *compiler) compileCombinatorKeywords(v *value.Value, s *Schema) {
	if a, ok := v.Props.Get("allOf"); ok && a.Kind == value.KindList {
		for _, item := range a.Items {
			s.allOf = append(s.allOf, c.compileNode(item))
		}
	}
	if a, ok := v.Props.Get("anyOf"); ok && a.Kind == value.KindList {
		for _, item := range a.Items {
			s.anyOf = append(s.anyOf, c.compileNode(item))
		}
	}
	if a, ok := v.Props.Get("oneOf"); ok && a.Kind == value.KindList {
		for _, item := range a.Items {
			s.oneOf = append(s.oneOf, c.compileNode(item))
		}
	}
	if n, ok := v.Props.Get("not"); ok {
		idx := c.compileNode(n)
		s.not = &idx
	}
	if ifS, ok := v.Props.Get("if"); ok {
		idx := c.compileNode(ifS)
		s.ifSchema = &idx
	}
	if thenS, ok := v.Props.Get("then"); ok {
		idx := c.compileNode(thenS)
		s.thenSchema = &idx
	}
	if elseS, ok := v.Props.Get("else"); ok {
		idx := c.compileNode(elseS)
		s.elseSchema = &idx
	}
}

func stringProp(v *value.Value, key string) (string, bool) {
	p, ok := v.Props.Get(key)
	if !ok || p.Kind != value.KindString {
		return "", false
	}
	return p.Str, true
}

func intProp(v *value.Value, key string) (int, bool) {
	p, ok := v.Props.Get(key)
	if !ok || p.Kind != value.KindInteger {
		return 0, false
	}
	return int(p.Int), true
}

func floatProp(v *value.Value, key string) (float64, bool) {
	p, ok := v.Props.Get(key)
	if !ok {
		return 0, false
	}
	switch p.Kind {
	case value.KindInteger:
		return float64(p.Int), true
	case value.KindDecimal:
		return p.Float, true
	}
	return 0, false
}

func typeSet(v *value.Value) []string {
	switch v.Kind {
	case value.KindString:
		return []string{v.Str}
	case value.KindList:
		out := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if item.Kind == value.KindString {
				out = append(out, item.Str)
			}
		}
		return out
	}
	return nil
}

// Validator wraps a CompiledSchema as the handle callers hold per
// spec.md's parseSchema → SchemaValidator.validate interface.
type Validator struct {
	compiled *CompiledSchema
}

// NewValidator compiles doc, a schema document the caller has already
// parsed and lowered to a value.Value (mirroring Analyze's own lower step).
func NewValidator(doc *value.Value) (*Validator, diag.Diagnostics) {
	compiled, diags := Compile(doc)
	return &Validator{compiled: compiled}, diags
}

// Validate checks v against the compiled root schema, returning every
// violation found (accumulated, not short-circuited) in document order.
func (val *Validator) Validate(v *value.Value) diag.Diagnostics {
	ctx := &validateCtx{compiled: val.compiled, visited: make(map[visitKey]bool)}
	ctx.check(val.compiled.root, v)
	sort.SliceStable(ctx.diags, func(i, j int) bool {
		return ctx.diags[i].Location.Start.Offset < ctx.diags[j].Location.Start.Offset
	})
	return ctx.diags
}

type visitKey struct {
	schemaIndex int
	valueLoc    token.Location
}

type validateCtx struct {
	compiled *CompiledSchema
	diags    diag.Diagnostics
	visited  map[visitKey]bool
	depth    int
}

func (ctx *validateCtx) fail(code diag.Code, loc token.Location, args ...string) {
	ctx.diags = append(ctx.diags, diag.New(code, diag.CategorySchemaValidate, diag.Error, loc, args...))
}

// check validates v against the schema at arena index idx, recording
// every keyword failure. It guards against structural $ref/combinator
// cycles with a (schema index, value location) visited set: once a pair
// is seen again on the current descent it is treated as vacuously valid
// rather than re-walked, since any difference would already have
// surfaced on the first visit.
func (ctx *validateCtx) check(idx int, v *value.Value) bool {
	if v == nil {
		return true
	}
	key := visitKey{idx, v.Loc}
	if ctx.visited[key] {
		return true
	}
	ctx.visited[key] = true
	defer delete(ctx.visited, key)

	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > maxSchemaDepth {
		ctx.fail(diag.CodeRecursionLimitExceeded, v.Loc, strconv.Itoa(maxSchemaDepth))
		return false
	}

	s := ctx.compiled.arena[idx]
	ok := true

	if len(s.types) > 0 && !typeMatches(s.types, v) {
		ctx.fail(diag.CodeTypeMismatch, v.Loc, fmt.Sprintf("%v", s.types), kindName(v))
		ok = false
	}
	if len(s.enum) > 0 && !enumMatches(s.enum, v) {
		ctx.fail(diag.CodeEnumMismatch, v.Loc)
		ok = false
	}
	if s.hasConst && !deepEqual(s.constVal, v) {
		ctx.fail(diag.CodeConstMismatch, v.Loc)
		ok = false
	}

	if !ctx.checkObject(s, v) {
		ok = false
	}
	if !ctx.checkArray(s, v) {
		ok = false
	}
	if !ctx.checkNumber(s, v) {
		ok = false
	}
	if !ctx.checkString(s, v) {
		ok = false
	}
	if !ctx.checkCombinators(s, v) {
		ok = false
	}
	return ok
}

func (ctx *validateCtx) checkObject(s *Schema, v *value.Value) bool {
	if v.Kind != value.KindObject {
		return true
	}
	ok := true
	for _, req := range s.required {
		if _, present := v.Props.Get(req); !present {
			ctx.fail(diag.CodeRequiredMissing, v.Loc, req)
			ok = false
		}
	}
	if s.propertyNames != nil {
		for _, k := range v.Props.Keys() {
			nameVal := &value.Value{Kind: value.KindString, Loc: v.Loc, Str: k}
			if !ctx.check(*s.propertyNames, nameVal) {
				ok = false
			}
		}
	}
	for _, k := range v.Props.Keys() {
		child, _ := v.Props.Get(k)
		matched := false
		if idx, declared := s.properties[k]; declared {
			matched = true
			if !ctx.check(idx, child) {
				ok = false
			}
		}
		for _, pp := range s.patternProperties {
			if pp.re.MatchString(k) {
				matched = true
				if !ctx.check(pp.index, child) {
					ok = false
				}
			}
		}
		if !matched {
			switch {
			case s.additionalPropsForbid:
				ctx.fail(diag.CodeAdditionalProps, child.Loc, k)
				ok = false
			case s.additionalProperties != nil:
				if !ctx.check(*s.additionalProperties, child) {
					ok = false
				}
			}
		}
	}
	return ok
}

func (ctx *validateCtx) checkArray(s *Schema, v *value.Value) bool {
	if v.Kind != value.KindList {
		return true
	}
	ok := true
	if s.minItems != nil && len(v.Items) < *s.minItems {
		ctx.fail(diag.CodeMinItems, v.Loc, fmt.Sprint(len(v.Items)), fmt.Sprint(*s.minItems))
		ok = false
	}
	if s.maxItems != nil && len(v.Items) > *s.maxItems {
		ctx.fail(diag.CodeMaxItems, v.Loc, fmt.Sprint(len(v.Items)), fmt.Sprint(*s.maxItems))
		ok = false
	}
	if s.uniqueItems && hasDuplicate(v.Items) {
		ctx.fail(diag.CodeUniqueItems, v.Loc)
		ok = false
	}
	if s.contains != nil {
		found := false
		for _, item := range v.Items {
			if ctx.checkSilently(*s.contains, item) {
				found = true
				break
			}
		}
		if !found {
			ctx.fail(diag.CodeContainsFailed, v.Loc)
			ok = false
		}
	}
	for i, item := range v.Items {
		switch {
		case i < len(s.itemsTuple):
			if !ctx.check(s.itemsTuple[i], item) {
				ok = false
			}
		case s.items != nil:
			if !ctx.check(*s.items, item) {
				ok = false
			}
		case i >= len(s.itemsTuple) && len(s.itemsTuple) > 0:
			switch {
			case s.additionalItemsForbid:
				ctx.fail(diag.CodeAdditionalItems, item.Loc, fmt.Sprint(i))
				ok = false
			case s.additionalItems != nil:
				if !ctx.check(*s.additionalItems, item) {
					ok = false
				}
			}
		}
	}
	return ok
}

// checkSilently runs check but discards any diagnostics it raised,
// for keywords (contains, if) that only need a boolean result.
func (ctx *validateCtx) checkSilently(idx int, v *value.Value) bool {
	saved := len(ctx.diags)
	ok := ctx.check(idx, v)
	ctx.diags = ctx.diags[:saved]
	return ok
}

func (ctx *validateCtx) checkNumber(s *Schema, v *value.Value) bool {
	if v.Kind != value.KindInteger && v.Kind != value.KindDecimal {
		return true
	}
	n := numericValue(v)
	ok := true
	if s.minimum != nil && n < *s.minimum {
		ctx.fail(diag.CodeMinimum, v.Loc, fmt.Sprint(n), fmt.Sprint(*s.minimum))
		ok = false
	}
	if s.maximum != nil && n > *s.maximum {
		ctx.fail(diag.CodeMaximum, v.Loc, fmt.Sprint(n), fmt.Sprint(*s.maximum))
		ok = false
	}
	if s.exclusiveMinimum != nil && n <= *s.exclusiveMinimum {
		ctx.fail(diag.CodeMinimum, v.Loc, fmt.Sprint(n), fmt.Sprint(*s.exclusiveMinimum))
		ok = false
	}
	if s.exclusiveMaximum != nil && n >= *s.exclusiveMaximum {
		ctx.fail(diag.CodeMaximum, v.Loc, fmt.Sprint(n), fmt.Sprint(*s.exclusiveMaximum))
		ok = false
	}
	if s.multipleOf != nil && *s.multipleOf != 0 {
		q := n / *s.multipleOf
		if math.Abs(q-math.Round(q)) > 1e-9 {
			ctx.fail(diag.CodeMultipleOf, v.Loc, fmt.Sprint(n), fmt.Sprint(*s.multipleOf))
			ok = false
		}
	}
	return ok
}

func (ctx *validateCtx) checkString(s *Schema, v *value.Value) bool {
	if v.Kind != value.KindString {
		return true
	}
	ok := true
	length := len([]rune(v.Str))
	if s.minLength != nil && length < *s.minLength {
		ctx.fail(diag.CodeMinLength, v.Loc, fmt.Sprint(length), fmt.Sprint(*s.minLength))
		ok = false
	}
	if s.maxLength != nil && length > *s.maxLength {
		ctx.fail(diag.CodeMaxLength, v.Loc, fmt.Sprint(length), fmt.Sprint(*s.maxLength))
		ok = false
	}
	if s.pattern != nil && !s.pattern.MatchString(v.Str) {
		ctx.fail(diag.CodePatternMismatch, v.Loc, s.patternSrc)
		ok = false
	}
	return ok
}

func (ctx *validateCtx) checkCombinators(s *Schema, v *value.Value) bool {
	ok := true
	for _, idx := range s.allOf {
		if !ctx.check(idx, v) {
			ok = false
		}
	}
	if len(s.anyOf) > 0 {
		any := false
		for _, idx := range s.anyOf {
			if ctx.checkSilently(idx, v) {
				any = true
				break
			}
		}
		if !any {
			ctx.fail(diag.CodeAnyOfFailed, v.Loc)
			ok = false
		}
	}
	if len(s.oneOf) > 0 {
		count := 0
		for _, idx := range s.oneOf {
			if ctx.checkSilently(idx, v) {
				count++
			}
		}
		if count != 1 {
			ctx.fail(diag.CodeOneOfFailed, v.Loc, fmt.Sprint(count))
			ok = false
		}
	}
	if s.not != nil && ctx.checkSilently(*s.not, v) {
		ctx.fail(diag.CodeNotFailed, v.Loc)
		ok = false
	}
	if s.ifSchema != nil {
		if ctx.checkSilently(*s.ifSchema, v) {
			if s.thenSchema != nil && !ctx.check(*s.thenSchema, v) {
				ok = false
			}
		} else if s.elseSchema != nil && !ctx.check(*s.elseSchema, v) {
			ok = false
		}
	}
	return ok
}

func typeMatches(types []string, v *value.Value) bool {
	for _, t := range types {
		switch t {
		case "object":
			if v.Kind == value.KindObject {
				return true
			}
		case "array":
			if v.Kind == value.KindList {
				return true
			}
		case "string":
			if v.Kind == value.KindString {
				return true
			}
		case "integer":
			if v.Kind == value.KindInteger {
				return true
			}
		case "number":
			if v.Kind == value.KindInteger || v.Kind == value.KindDecimal {
				return true
			}
		case "boolean":
			if v.Kind == value.KindBoolean {
				return true
			}
		case "null":
			if v.Kind == value.KindNull {
				return true
			}
		}
	}
	return false
}

func kindName(v *value.Value) string {
	switch v.Kind {
	case value.KindObject:
		return "object"
	case value.KindList:
		return "array"
	case value.KindString:
		return "string"
	case value.KindInteger:
		return "integer"
	case value.KindDecimal:
		return "number"
	case value.KindBoolean:
		return "boolean"
	case value.KindNull:
		return "null"
	default:
		return "embed"
	}
}

func numericValue(v *value.Value) float64 {
	if v.Kind == value.KindInteger {
		return float64(v.Int)
	}
	return v.Float
}

// enumMatches and deepEqual treat an exact integer and the equal-valued
// decimal as the same value (1 == 1.0), matching the numeric-equality
// edge case spec.md calls out for uniqueItems/enum/const comparisons.
func enumMatches(enum []*value.Value, v *value.Value) bool {
	for _, e := range enum {
		if deepEqual(e, v) {
			return true
		}
	}
	return false
}

func deepEqual(a, b *value.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	an := a.Kind == value.KindInteger || a.Kind == value.KindDecimal
	bn := b.Kind == value.KindInteger || b.Kind == value.KindDecimal
	if an && bn {
		return numericValue(a) == numericValue(b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.KindString:
		return a.Str == b.Str
	case value.KindBoolean:
		return a.Bool == b.Bool
	case value.KindNull:
		return true
	case value.KindList:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !deepEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case value.KindObject:
		if a.Props.Len() != b.Props.Len() {
			return false
		}
		for _, k := range a.Props.Keys() {
			av, _ := a.Props.Get(k)
			bv, ok := b.Props.Get(k)
			if !ok || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

func hasDuplicate(items []*value.Value) bool {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if deepEqual(items[i], items[j]) {
				return true
			}
		}
	}
	return false
}
