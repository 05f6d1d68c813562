package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/evoscope/symgp/pkg/errors"
	"github.com/evoscope/symgp/pkg/tree"
)

// Parser turns infix expressions into postfix trees. Variable identifiers
// resolve against the name list given at construction; everything else in
// identifier position must be a known function.
type Parser struct {
	variables map[string]int
}

// NewParser builds a parser that resolves names[i] to variable index i.
func NewParser(names []string) *Parser {
	variables := make(map[string]int, len(names))
	for i, name := range names {
		variables[name] = i
	}
	return &Parser{variables: variables}
}

// Parse consumes the whole input and returns the tree.
func (p *Parser) Parse(input string) (tree.Tree, error) {
	tokens, err := lex(input)
	if err != nil {
		return tree.Tree{}, err
	}
	s := &parseState{parser: p, tokens: tokens}
	nodes, err := s.expr()
	if err != nil {
		return tree.Tree{}, err
	}
	if s.peek().kind != tokEOF {
		return tree.Tree{}, parseErrorf("unexpected %q after expression", s.peek().text)
	}
	t := tree.New(nodes)
	t.UpdateNodes()
	return t, nil
}

var functions = map[string]tree.NodeType{
	"add": tree.Add, "sub": tree.Sub, "mul": tree.Mul, "div": tree.Div,
	"aq": tree.Aq, "pow": tree.Pow, "exp": tree.Exp, "log": tree.Log,
	"sin": tree.Sin, "cos": tree.Cos, "tan": tree.Tan,
	"sqrt": tree.Sqrt, "square": tree.Square,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := rune(input[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(input) && (input[j] >= '0' && input[j] <= '9' || input[j] == '.') {
				j++
			}
			if j < len(input) && (input[j] == 'e' || input[j] == 'E') {
				j++
				if j < len(input) && (input[j] == '+' || input[j] == '-') {
					j++
				}
				for j < len(input) && input[j] >= '0' && input[j] <= '9' {
					j++
				}
			}
			text := input[i:j]
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, parseErrorf("malformed number %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: value})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(input) && (unicode.IsLetter(rune(input[j])) || unicode.IsDigit(rune(input[j])) || input[j] == '_') {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: input[i:j]})
			i = j
		default:
			kind, ok := map[byte]tokenKind{
				'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash,
				'^': tokCaret, '(': tokLParen, ')': tokRParen, ',': tokComma,
			}[input[i]]
			if !ok {
				return nil, parseErrorf("unexpected character %q", string(c))
			}
			tokens = append(tokens, token{kind: kind, text: string(c)})
			i++
		}
	}
	return append(tokens, token{kind: tokEOF}), nil
}

type parseState struct {
	parser *Parser
	tokens []token
	pos    int
}

func (s *parseState) peek() token { return s.tokens[s.pos] }

func (s *parseState) next() token {
	t := s.tokens[s.pos]
	if t.kind != tokEOF {
		s.pos++
	}
	return t
}

// expr := term (('+' | '-') term)*
func (s *parseState) expr() ([]tree.Node, error) {
	nodes, err := s.term()
	if err != nil {
		return nil, err
	}
	for {
		switch s.peek().kind {
		case tokPlus:
			s.next()
			right, err := s.term()
			if err != nil {
				return nil, err
			}
			nodes = append(append(nodes, right...), tree.NewNode(tree.Add))
		case tokMinus:
			s.next()
			right, err := s.term()
			if err != nil {
				return nil, err
			}
			nodes = append(append(nodes, right...), tree.NewNode(tree.Sub))
		default:
			return nodes, nil
		}
	}
}

// term := factor (('*' | '/') factor)*
func (s *parseState) term() ([]tree.Node, error) {
	nodes, err := s.factor()
	if err != nil {
		return nil, err
	}
	for {
		switch s.peek().kind {
		case tokStar:
			s.next()
			right, err := s.factor()
			if err != nil {
				return nil, err
			}
			nodes = append(append(nodes, right...), tree.NewNode(tree.Mul))
		case tokSlash:
			s.next()
			right, err := s.factor()
			if err != nil {
				return nil, err
			}
			nodes = append(append(nodes, right...), tree.NewNode(tree.Div))
		default:
			return nodes, nil
		}
	}
}

// factor := unary ('^' factor)?   right-associative
func (s *parseState) factor() ([]tree.Node, error) {
	nodes, err := s.unary()
	if err != nil {
		return nil, err
	}
	if s.peek().kind == tokCaret {
		s.next()
		right, err := s.factor()
		if err != nil {
			return nil, err
		}
		nodes = append(append(nodes, right...), tree.NewNode(tree.Pow))
	}
	return nodes, nil
}

// unary := ('-' | '+') unary | primary
func (s *parseState) unary() ([]tree.Node, error) {
	switch s.peek().kind {
	case tokPlus:
		s.next()
		return s.unary()
	case tokMinus:
		s.next()
		nodes, err := s.unary()
		if err != nil {
			return nil, err
		}
		if len(nodes) == 1 && nodes[0].Type == tree.Constant {
			return []tree.Node{tree.NewConstant(-nodes[0].Value)}, nil
		}
		return append(append([]tree.Node{tree.NewConstant(-1)}, nodes...), tree.NewNode(tree.Mul)), nil
	}
	return s.primary()
}

// primary := number | ident '(' args ')' | ident | '(' expr ')'
func (s *parseState) primary() ([]tree.Node, error) {
	switch t := s.next(); t.kind {
	case tokNumber:
		return []tree.Node{tree.NewConstant(t.value)}, nil
	case tokLParen:
		nodes, err := s.expr()
		if err != nil {
			return nil, err
		}
		if s.next().kind != tokRParen {
			return nil, parseErrorf("missing closing parenthesis")
		}
		return nodes, nil
	case tokIdent:
		if s.peek().kind == tokLParen {
			return s.call(t.text)
		}
		index, ok := s.parser.variables[t.text]
		if !ok {
			return nil, parseErrorf("unknown variable %q", t.text)
		}
		return []tree.Node{tree.NewVariable(index, 1.0)}, nil
	case tokEOF:
		return nil, parseErrorf("unexpected end of expression")
	default:
		return nil, parseErrorf("unexpected %q", t.text)
	}
}

func (s *parseState) call(name string) ([]tree.Node, error) {
	nt, ok := functions[strings.ToLower(name)]
	if !ok {
		return nil, parseErrorf("unknown function %q", name)
	}
	s.next() // consume '('

	var nodes []tree.Node
	argc := 0
	if s.peek().kind != tokRParen {
		for {
			arg, err := s.expr()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, arg...)
			argc++
			if s.peek().kind != tokComma {
				break
			}
			s.next()
		}
	}
	if s.next().kind != tokRParen {
		return nil, parseErrorf("missing closing parenthesis in call to %q", name)
	}
	if argc != nt.DeclaredArity() {
		return nil, parseErrorf("%s expects %d arguments, got %d", name, nt.DeclaredArity(), argc)
	}
	return append(nodes, tree.NewNode(nt)), nil
}

func parseErrorf(format string, args ...interface{}) error {
	return errors.New(errors.ParseError, fmt.Sprintf(format, args...))
}
