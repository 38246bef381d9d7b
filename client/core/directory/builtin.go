package directory

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/fetchoracle/telliot-core-alt/configs"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
)

// 内置合约名
const (
	Master = "master"
	Oracle = "oracle"
)

// Builtin 加载内置目录（TellorX master/oracle，主网与 rinkeby）
func Builtin() (*Static, error) {
	return Load(configs.DirectoryFS, configs.DirectoryIndex)
}

// FromConfig 在内置目录上应用配置中的覆盖条目
//
// 条目的 abi_file 从本地文件系统读取。
func FromConfig(entries []types.UserDirectoryEntry) (*Static, error) {
	base, err := Builtin()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return base, nil
	}
	overrides, err := overridesFrom(os.DirFS("."), entries)
	if err != nil {
		return nil, err
	}
	return base.With(overrides...)
}

func overridesFrom(fsys fs.FS, entries []types.UserDirectoryEntry) ([]Override, error) {
	out := make([]Override, 0, len(entries))
	for _, e := range entries {
		o := Override{ChainID: e.ChainID, Name: e.Name, Address: e.Address}
		if e.ABIFile != "" {
			parsed, err := ParseABIFile(fsys, e.ABIFile)
			if err != nil {
				return nil, fmt.Errorf("directory override %s: %w", e.Name, err)
			}
			o.ABI = parsed
		}
		out = append(out, o)
	}
	return out, nil
}
