package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses TOML tokens into a map[string]any
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	root      map[string]any
	current   any // map or table-array element currently in scope
}

func NewParser(input []byte) *Parser {
	l := NewLexer(input)
	p := &Parser{
		lexer: l,
		root:  make(map[string]any),
	}
	p.nextToken()
	p.nextToken()
	p.current = p.root
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()

	for p.peekToken.Type == TokenComment {
		p.peekToken = p.lexer.NextToken()
	}
}

func (p *Parser) Parse() (map[string]any, error) {
	for p.curToken.Type != TokenEOF {
		if p.curToken.Type == TokenNewline {
			p.nextToken()
			continue
		}

		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) parseStatement() error {
	switch p.curToken.Type {
	case TokenLBracket:
		return p.parseTableDeclaration()
	case TokenIdent, TokenString:
		return p.parseKeyValuePair(p.current)
	case TokenError:
		return fmt.Errorf("lexing error line %d: %s", p.curToken.Line, p.curToken.Literal)
	default:
		return fmt.Errorf("unexpected token line %d: %s", p.curToken.Line, p.curToken.String())
	}
}

// parseTableDeclaration handles [key] and [[key]]
func (p *Parser) parseTableDeclaration() error {
	isArray := false
	if p.peekToken.Type == TokenLBracket {
		p.nextToken() // consume first [
		isArray = true
	}
	p.nextToken() // consume [

	keys, err := p.parseKeyParts()
	if err != nil {
		return err
	}

	if isArray {
		if p.curToken.Type != TokenRBracket {
			return fmt.Errorf("expected closing bracket for array table at line %d", p.curToken.Line)
		}
		p.nextToken() // consume first ]
	}

	if p.curToken.Type != TokenRBracket {
		return fmt.Errorf("expected closing bracket for table at line %d", p.curToken.Line)
	}
	p.nextToken() // consume final ]

	return p.setTableScope(keys, isArray)
}

// setTableScope navigates or creates the map structure for a table
// header and points p.current at it. Table headers always resolve from
// the root; a dotted path through an array of tables traverses the last
// element.
func (p *Parser) setTableScope(keys []string, isArrayOfTables bool) error {
	var ptr any = p.root

	for i, key := range keys {
		isLast := i == len(keys)-1
		currentMap, ok := ptr.(map[string]any)
		if !ok {
			return fmt.Errorf("key path conflict: %s is not a map", key)
		}

		if isLast {
			if isArrayOfTables {
				var slice []map[string]any
				if val, exists := currentMap[key]; exists {
					if s, ok := val.([]map[string]any); ok {
						slice = s
					} else {
						return fmt.Errorf("key conflict: %s is not an array of tables", key)
					}
				} else {
					slice = make([]map[string]any, 0)
				}

				newMap := make(map[string]any)
				slice = append(slice, newMap)
				currentMap[key] = slice
				p.current = newMap
			} else {
				var targetMap map[string]any
				if val, exists := currentMap[key]; exists {
					if m, ok := val.(map[string]any); ok {
						targetMap = m
					} else {
						return fmt.Errorf("key conflict: %s is not a table", key)
					}
				} else {
					targetMap = make(map[string]any)
					currentMap[key] = targetMap
				}
				p.current = targetMap
			}
		} else {
			if val, exists := currentMap[key]; exists {
				if _, ok := val.(map[string]any); !ok {
					if slice, ok := val.([]map[string]any); ok {
						if len(slice) == 0 {
							return fmt.Errorf("cannot traverse empty array table %s", key)
						}
						ptr = slice[len(slice)-1]
						continue
					}
					return fmt.Errorf("intermediate key %s is not a map", key)
				}
				ptr = val
			} else {
				newMap := make(map[string]any)
				currentMap[key] = newMap
				ptr = newMap
			}
		}
	}
	return nil
}

func (p *Parser) parseKeyValuePair(scope any) error {
	keys, err := p.parseKeyParts()
	if err != nil {
		return err
	}

	if p.curToken.Type != TokenEqual {
		return fmt.Errorf("expected '=' after key at line %d, got %s", p.curToken.Line, p.curToken.String())
	}
	p.nextToken() // consume =

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	return p.assignValue(scope, keys, val)
}

func (p *Parser) assignValue(scope any, keys []string, val any) error {
	currentMap, ok := scope.(map[string]any)
	if !ok {
		return fmt.Errorf("scope is not a map")
	}

	for i, key := range keys {
		if i == len(keys)-1 {
			if _, exists := currentMap[key]; exists {
				return fmt.Errorf("duplicate key %s at line %d", key, p.curToken.Line)
			}
			currentMap[key] = val
		} else {
			if existing, exists := currentMap[key]; exists {
				if m, ok := existing.(map[string]any); ok {
					currentMap = m
				} else {
					return fmt.Errorf("intermediate key %s is not a map", key)
				}
			} else {
				newMap := make(map[string]any)
				currentMap[key] = newMap
				currentMap = newMap
			}
		}
	}
	return nil
}

func (p *Parser) parseKeyParts() ([]string, error) {
	var keys []string

	for {
		if p.curToken.Type != TokenIdent && p.curToken.Type != TokenString {
			return nil, fmt.Errorf("expected key at line %d, got %s", p.curToken.Line, p.curToken.String())
		}
		keys = append(keys, p.curToken.Literal)
		p.nextToken()

		if p.curToken.Type == TokenDot {
			p.nextToken()
			continue
		}
		break
	}
	return keys, nil
}

// parseValue reads one value. Malformed numbers are errors, never
// silent zeros; a typo in a config number must surface.
func (p *Parser) parseValue() (any, error) {
	switch p.curToken.Type {
	case TokenString:
		val := p.curToken.Literal
		p.nextToken()
		return val, nil
	case TokenInteger:
		line := p.curToken.Line
		lit := strings.ReplaceAll(p.curToken.Literal, "_", "")
		val, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q at line %d", p.curToken.Literal, line)
		}
		p.nextToken()
		return int(val), nil
	case TokenFloat:
		line := p.curToken.Line
		lit := strings.ReplaceAll(p.curToken.Literal, "_", "")
		val, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q at line %d", p.curToken.Literal, line)
		}
		p.nextToken()
		return val, nil
	case TokenBool:
		val := p.curToken.Literal == "true"
		p.nextToken()
		return val, nil
	case TokenLBracket:
		return p.parseArray()
	case TokenLBrace:
		return p.parseInlineTable()
	}
	return nil, fmt.Errorf("unexpected value token %s at line %d", p.curToken.String(), p.curToken.Line)
}

func (p *Parser) parseArray() ([]any, error) {
	p.nextToken() // consume [
	arr := make([]any, 0)

	for p.curToken.Type != TokenRBracket {
		if p.curToken.Type == TokenNewline {
			p.nextToken()
			continue
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		if p.curToken.Type == TokenComma {
			p.nextToken()
		} else if p.curToken.Type != TokenRBracket {
			// Trailing comma and multiline arrays are both accepted
			if p.curToken.Type == TokenNewline {
				p.nextToken()
				continue
			}
			return nil, fmt.Errorf("expected comma or closing bracket in array at line %d", p.curToken.Line)
		}
	}
	p.nextToken() // consume ]
	return arr, nil
}

func (p *Parser) parseInlineTable() (map[string]any, error) {
	p.nextToken() // consume {
	m := make(map[string]any)

	for p.curToken.Type != TokenRBrace {
		if p.curToken.Type == TokenNewline {
			p.nextToken()
			continue
		}

		keys, err := p.parseKeyParts()
		if err != nil {
			return nil, err
		}

		if p.curToken.Type != TokenEqual {
			return nil, fmt.Errorf("expected '=' in inline table at line %d", p.curToken.Line)
		}
		p.nextToken()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if err := p.assignValue(m, keys, val); err != nil {
			return nil, err
		}

		if p.curToken.Type == TokenComma {
			p.nextToken()
		} else if p.curToken.Type != TokenRBrace {
			return nil, fmt.Errorf("expected comma or closing brace in inline table at line %d", p.curToken.Line)
		}
	}
	p.nextToken() // consume }
	return m, nil
}
