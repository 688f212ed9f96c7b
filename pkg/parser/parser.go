// Package parser builds a types.Node tree from a JSON++ token stream. Every
// Node it produces is stamped with its tree-path (see types.Step),
// assigned deterministically as the tree is built, exactly as required by
// the evaluator's memoization and the ref path-language.
package parser

import (
	"jsonpp/pkg/lexer"
	"jsonpp/pkg/types"
)

type parser struct {
	file   string
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses source, returning the root Node of the tree.
// file is recorded on every Node's Position and is used by include/import
// to resolve relative paths.
func Parse(file, source string) (*types.Node, error) {
	tokens, err := lexer.Tokenize(file, source)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, tokens: tokens}
	root, err := p.parseValue(nil, nil)
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.TokenEOF {
		return nil, types.NewParseError(p.pos2(), "unexpected trailing input after top-level value")
	}
	return root, nil
}

func (p *parser) cur() lexer.Token  { return p.tokens[p.pos] }
func (p *parser) pos2() types.Position { return p.cur().Pos }
func (p *parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lexer.TokenKind, what string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, types.NewParseError(p.pos2(), "expected %s, found %s", what, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *parser) parseValue(path []types.Step, parent *types.Node) (*types.Node, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.TokenLBrace:
		return p.parseObject(path, parent)
	case lexer.TokenLBracket:
		return p.parseArray(path, parent)
	case lexer.TokenLParen:
		return p.parseCall(path, parent)
	case lexer.TokenString:
		p.advance()
		return &types.Node{Kind: types.NodeString, Str: tok.Text, Pos: tok.Pos, Path: path, Parent: parent}, nil
	case lexer.TokenInt:
		p.advance()
		return &types.Node{Kind: types.NodeInt, IntVal: tok.IntVal, Pos: tok.Pos, Path: path, Parent: parent}, nil
	case lexer.TokenFloat:
		p.advance()
		return &types.Node{Kind: types.NodeFloat, FloatVal: tok.FloatVal, Pos: tok.Pos, Path: path, Parent: parent}, nil
	case lexer.TokenIdent:
		p.advance()
		switch tok.Text {
		case "true":
			return &types.Node{Kind: types.NodeBool, BoolVal: true, Pos: tok.Pos, Path: path, Parent: parent}, nil
		case "false":
			return &types.Node{Kind: types.NodeBool, BoolVal: false, Pos: tok.Pos, Path: path, Parent: parent}, nil
		case "null":
			return &types.Node{Kind: types.NodeNull, Pos: tok.Pos, Path: path, Parent: parent}, nil
		case "undefined":
			return &types.Node{Kind: types.NodeUndefined, Pos: tok.Pos, Path: path, Parent: parent}, nil
		default:
			return &types.Node{Kind: types.NodeIdentifier, Str: tok.Text, Pos: tok.Pos, Path: path, Parent: parent}, nil
		}
	default:
		return nil, types.NewParseError(tok.Pos, "unexpected token %s while parsing a value", tok.Kind)
	}
}

func (p *parser) parseObject(path []types.Step, parent *types.Node) (*types.Node, error) {
	start := p.cur().Pos
	p.advance() // {
	node := &types.Node{
		Kind: types.NodeObject, Pos: start, Path: path, Parent: parent,
		Fields: make(map[string]*types.Node),
	}
	for p.cur().Kind != lexer.TokenRBrace {
		keyTok, err := p.expect(lexer.TokenString, "object key")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		if _, exists := node.Fields[keyTok.Text]; exists {
			return nil, types.NewParseError(keyTok.Pos, "duplicate object key %q", keyTok.Text)
		}
		childPath := types.NewChildPath(path, types.Step{Kind: types.StepKey, Key: keyTok.Text})
		val, err := p.parseValue(childPath, node)
		if err != nil {
			return nil, err
		}
		node.Keys = append(node.Keys, keyTok.Text)
		node.Fields[keyTok.Text] = val

		if p.cur().Kind == lexer.TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokenRBrace, "'}'"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseArray(path []types.Step, parent *types.Node) (*types.Node, error) {
	start := p.cur().Pos
	p.advance() // [
	node := &types.Node{Kind: types.NodeArray, Pos: start, Path: path, Parent: parent}
	idx := 0
	for p.cur().Kind != lexer.TokenRBracket {
		childPath := types.NewChildPath(path, types.Step{Kind: types.StepIndex, Index: idx})
		val, err := p.parseValue(childPath, node)
		if err != nil {
			return nil, err
		}
		node.Items = append(node.Items, val)
		idx++

		if p.cur().Kind == lexer.TokenComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokenRBracket, "']'"); err != nil {
		return nil, err
	}
	return node, nil
}

// parseCall parses '(' value value* ')'. Arguments are whitespace-separated;
// commas between them are accepted but optional, and a trailing comma
// before ')' is discarded, matching both historic surface forms.
func (p *parser) parseCall(path []types.Step, parent *types.Node) (*types.Node, error) {
	start := p.cur().Pos
	p.advance() // (
	node := &types.Node{Kind: types.NodeCall, Pos: start, Path: path, Parent: parent}

	headPath := types.NewChildPath(path, types.Step{Kind: types.StepArg, Index: 0})
	head, err := p.parseValue(headPath, node)
	if err != nil {
		return nil, err
	}
	node.Head = head

	argIdx := 1
	for {
		if p.cur().Kind == lexer.TokenComma {
			p.advance()
		}
		if p.cur().Kind == lexer.TokenRParen {
			break
		}
		argPath := types.NewChildPath(path, types.Step{Kind: types.StepArg, Index: argIdx})
		arg, err := p.parseValue(argPath, node)
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, arg)
		argIdx++
	}
	if _, err := p.expect(lexer.TokenRParen, "')'"); err != nil {
		return nil, err
	}
	return node, nil
}
