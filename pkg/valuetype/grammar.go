package valuetype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// node 文法树节点
//
// base 为规范化后的基础类型名；元组节点 base 为空，elems 保存成员。
// dims 依声明顺序保存数组后缀（"[]" 或 "[k]"）。
type node struct {
	base  string
	elems []*node
	dims  []string
}

// String 返回规范化类型字符串
func (n *node) String() string {
	var b strings.Builder
	if n.base == "" {
		b.WriteByte('(')
		for i, e := range n.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(e.String())
		}
		b.WriteByte(')')
	} else {
		b.WriteString(n.base)
	}
	for _, d := range n.dims {
		b.WriteString(d)
	}
	return b.String()
}

// marshaling 转换为 go-ethereum 的参数描述
//
// 元组成员必须有名字才能生成 Go 结构体字段，这里按位置命名为 field0、field1 ...
func (n *node) marshaling(name string) abi.ArgumentMarshaling {
	if n.base != "" {
		return abi.ArgumentMarshaling{Name: name, Type: n.String()}
	}
	comps := make([]abi.ArgumentMarshaling, len(n.elems))
	for i, e := range n.elems {
		comps[i] = e.marshaling(fmt.Sprintf("field%d", i))
	}
	return abi.ArgumentMarshaling{
		Name:       name,
		Type:       "tuple" + strings.Join(n.dims, ""),
		Components: comps,
	}
}

// maxStaticSlots 单个类型展开后允许的最大元素数（各维定长相乘，元组成员相加）
const maxStaticSlots = 1 << 20

// staticSlots 估算类型展开后的元素数，超过 limit 时提前返回 limit+1
func (n *node) staticSlots(limit uint64) uint64 {
	var total uint64 = 1
	if n.base == "" {
		total = 0
		for _, e := range n.elems {
			total += e.staticSlots(limit)
			if total > limit {
				return limit + 1
			}
		}
	}
	for _, d := range n.dims {
		if d == "[]" {
			continue
		}
		k, _ := strconv.ParseUint(d[1:len(d)-1], 10, 64)
		if total > limit/k {
			return limit + 1
		}
		total *= k
	}
	return total
}

type parser struct {
	src string
	pos int
}

// parse 解析完整类型字符串，要求消费全部输入
func parse(typeString string) (*node, error) {
	p := &parser{src: strings.TrimSpace(typeString)}
	if p.src == "" {
		return nil, &GrammarError{TypeString: typeString, Reason: "empty type"}
	}
	n, reason := p.parseType()
	if reason == "" && p.pos != len(p.src) {
		reason = fmt.Sprintf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	if reason == "" && n.staticSlots(maxStaticSlots) > maxStaticSlots {
		reason = fmt.Sprintf("fixed-size arrays expand to more than %d elements", maxStaticSlots)
	}
	if reason != "" {
		return nil, &GrammarError{TypeString: typeString, Reason: reason}
	}
	return n, nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseType() (*node, string) {
	var (
		n      *node
		reason string
	)
	if p.peek() == '(' {
		n, reason = p.parseTuple()
	} else {
		n, reason = p.parseBasic()
	}
	if reason != "" {
		return nil, reason
	}
	for p.peek() == '[' {
		dim, reason := p.parseDim()
		if reason != "" {
			return nil, reason
		}
		n.dims = append(n.dims, dim)
	}
	return n, ""
}

func (p *parser) parseTuple() (*node, string) {
	p.pos++ // '('
	if p.peek() == ')' {
		return nil, "empty tuple"
	}
	n := &node{}
	for {
		elem, reason := p.parseType()
		if reason != "" {
			return nil, reason
		}
		n.elems = append(n.elems, elem)
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return n, ""
		case 0:
			return nil, "unterminated tuple"
		default:
			return nil, fmt.Sprintf("unexpected %q in tuple at offset %d", p.peek(), p.pos)
		}
	}
}

func (p *parser) parseDim() (string, string) {
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return "", "unterminated array suffix"
	}
	inner := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1
	if inner == "" {
		return "[]", ""
	}
	k, err := strconv.ParseUint(inner, 10, 32)
	if err != nil || k == 0 {
		return "", fmt.Sprintf("invalid array length %q", inner)
	}
	return fmt.Sprintf("[%d]", k), ""
}

func (p *parser) parseBasic() (*node, string) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= 'a' && p.src[p.pos] <= 'z' {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, fmt.Sprintf("expected type name at offset %d", start)
	}
	digitStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	digits := p.src[digitStart:p.pos]

	switch name {
	case "uint", "int":
		if digits == "" {
			return &node{base: name + "256"}, ""
		}
		m, err := strconv.Atoi(digits)
		if err != nil || m < 8 || m > 256 || m%8 != 0 {
			return nil, fmt.Sprintf("unsupported integer width %s", digits)
		}
		return &node{base: name + strconv.Itoa(m)}, ""
	case "bytes":
		if digits == "" {
			return &node{base: "bytes"}, ""
		}
		m, err := strconv.Atoi(digits)
		if err != nil || m < 1 || m > 32 {
			return nil, fmt.Sprintf("unsupported bytes width %s", digits)
		}
		return &node{base: "bytes" + strconv.Itoa(m)}, ""
	case "fixed", "ufixed":
		return nil, "fixed-point types are not supported"
	}

	if digits != "" {
		return nil, fmt.Sprintf("type %s takes no width", name)
	}
	switch name {
	case "address", "bool", "string":
		return &node{base: name}, ""
	case "byte":
		return &node{base: "bytes1"}, ""
	case "function":
		return &node{base: "bytes24"}, ""
	}
	return nil, fmt.Sprintf("unknown type %q", name)
}
