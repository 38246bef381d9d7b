// Package directory 提供 (链ID, 合约名) → (地址, 接口描述) 的静态目录
//
// 目录数据在加载后只读；追加或覆盖条目会生成新的目录实例。
package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Entry 目录条目
type Entry struct {
	ChainID int64
	Name    string
	Address common.Address
	ABI     *abi.ABI
}

// Lookuper 目录查询接口
type Lookuper interface {
	// Lookup 查询条目，不存在时返回 false
	Lookup(chainID int64, name string) (Entry, bool)
}

// Record 目录索引文件中的一条合约记录
type Record struct {
	Name    string            `json:"name"`
	ABIFile string            `json:"abi_file"`
	Address map[string]string `json:"address"` // 链ID（十进制字符串）→ 地址
}

// Override 配置中的追加/覆盖条目；ABI 为 nil 时沿用同名合约已有的接口描述
type Override struct {
	ChainID int64
	Name    string
	Address string
	ABI     *abi.ABI
}

type key struct {
	chainID int64
	name    string
}

// Static 不可变目录
type Static struct {
	entries map[key]Entry
	abis    map[string]*abi.ABI // 合约名 → 接口描述
}

var _ Lookuper = (*Static)(nil)

// NewStatic 由条目直接构造目录
func NewStatic(entries ...Entry) (*Static, error) {
	s := &Static{entries: make(map[key]Entry, len(entries)), abis: make(map[string]*abi.ABI)}
	for _, e := range entries {
		if err := s.add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load 从文件系统加载目录索引，ABI 文件路径相对于索引文件所在目录
func Load(fsys fs.FS, indexPath string) (*Static, error) {
	raw, err := fs.ReadFile(fsys, indexPath)
	if err != nil {
		return nil, fmt.Errorf("read directory index: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse directory index: %w", err)
	}

	s := &Static{entries: make(map[key]Entry), abis: make(map[string]*abi.ABI)}
	dir := path.Dir(indexPath)
	for _, rec := range records {
		parsed, err := ParseABIFile(fsys, path.Join(dir, rec.ABIFile))
		if err != nil {
			return nil, fmt.Errorf("contract %s: %w", rec.Name, err)
		}
		for chain, addr := range rec.Address {
			chainID, err := strconv.ParseInt(chain, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("contract %s: invalid chain id %q", rec.Name, chain)
			}
			if !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("contract %s on chain %d: invalid address %q", rec.Name, chainID, addr)
			}
			if err := s.add(Entry{ChainID: chainID, Name: rec.Name, Address: common.HexToAddress(addr), ABI: parsed}); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// ParseABIFile 读取并解析 ABI JSON 文件
func ParseABIFile(fsys fs.FS, name string) (*abi.ABI, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read abi %s: %w", name, err)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse abi %s: %w", name, err)
	}
	return &parsed, nil
}

func (s *Static) add(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("directory entry without name")
	}
	if e.Address == (common.Address{}) {
		return fmt.Errorf("contract %s on chain %d has zero address", e.Name, e.ChainID)
	}
	if e.ABI == nil {
		return fmt.Errorf("contract %s on chain %d has no interface description", e.Name, e.ChainID)
	}
	s.entries[key{e.ChainID, e.Name}] = e
	if _, ok := s.abis[e.Name]; !ok {
		s.abis[e.Name] = e.ABI
	}
	return nil
}

// Lookup 查询条目
func (s *Static) Lookup(chainID int64, name string) (Entry, bool) {
	e, ok := s.entries[key{chainID, name}]
	return e, ok
}

// With 返回应用了覆盖条目的新目录，原目录不变
func (s *Static) With(overrides ...Override) (*Static, error) {
	next := &Static{
		entries: make(map[key]Entry, len(s.entries)+len(overrides)),
		abis:    make(map[string]*abi.ABI, len(s.abis)),
	}
	for k, e := range s.entries {
		next.entries[k] = e
	}
	for n, a := range s.abis {
		next.abis[n] = a
	}
	for _, o := range overrides {
		if !common.IsHexAddress(o.Address) {
			return nil, fmt.Errorf("override %s on chain %d: invalid address %q", o.Name, o.ChainID, o.Address)
		}
		parsed := o.ABI
		if parsed == nil {
			parsed = next.abis[o.Name]
		}
		if parsed == nil {
			return nil, fmt.Errorf("override %s on chain %d: no interface description for unknown contract", o.Name, o.ChainID)
		}
		if err := next.add(Entry{ChainID: o.ChainID, Name: o.Name, Address: common.HexToAddress(o.Address), ABI: parsed}); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// Entries 按链ID、名称排序列出全部条目
func (s *Static) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChainID != out[j].ChainID {
			return out[i].ChainID < out[j].ChainID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
