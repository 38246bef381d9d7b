// Package output 命令行结果输出：json、pretty、table、text
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"
)

// Format 输出格式
type Format string

const (
	// FormatJSON JSON格式（默认）
	FormatJSON Format = "json"
	// FormatPretty 美化JSON格式
	FormatPretty Format = "pretty"
	// FormatTable 表格格式
	FormatTable Format = "table"
	// FormatText 纯文本格式
	FormatText Format = "text"
)

// ParseFormat 解析输出格式
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatPretty, FormatTable, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, pretty, table or text)", s)
	}
}

// Formatter 输出格式化器
//
// 数据写 writer，提示信息写 logWriter，JSON 输出不会混入提示。
type Formatter struct {
	format    Format
	writer    io.Writer
	logWriter io.Writer
	silent    bool
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Formatter{format: format, writer: writer, logWriter: os.Stderr}
}

// SetLogWriter 设置提示输出目标（默认 stderr）
func (f *Formatter) SetLogWriter(writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	f.logWriter = writer
}

// SetSilent 静默模式只输出数据
func (f *Formatter) SetSilent(silent bool) {
	f.silent = silent
}

// Print 按格式输出数据
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatPretty:
		return f.printJSON(data, true)
	case FormatTable:
		return f.printTable(data)
	case FormatText:
		return f.printText(data)
	default:
		return f.printJSON(data, false)
	}
}

func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, string(out)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// printTable 对象输出为 Key|Value 两列，对象数组按字段成列
func (f *Formatter) printTable(data interface{}) error {
	generic, err := normalize(data)
	if err != nil {
		return err
	}

	var rows [][]string
	switch v := generic.(type) {
	case map[string]interface{}:
		rows = append(rows, []string{"Key", "Value"})
		for _, k := range sortedKeys(v) {
			rows = append(rows, []string{k, formatValue(v[k])})
		}
	case []interface{}:
		rows = sliceRows(v)
	default:
		return f.printText(data)
	}
	if len(rows) == 0 {
		return nil
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, rendered); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func sliceRows(items []interface{}) [][]string {
	if len(items) == 0 {
		return nil
	}
	objects := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			objects = nil
			break
		}
		objects = append(objects, m)
	}

	if objects == nil {
		rows := [][]string{{"#", "Value"}}
		for i, it := range items {
			rows = append(rows, []string{fmt.Sprint(i), formatValue(it)})
		}
		return rows
	}

	columns := extractColumns(objects)
	rows := [][]string{columns}
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			if val, ok := obj[col]; ok {
				row[i] = formatValue(val)
			} else {
				row[i] = "-"
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// printText 对象输出为 key: value 行，其它值直接输出
func (f *Formatter) printText(data interface{}) error {
	var b strings.Builder
	switch v := data.(type) {
	case string:
		b.WriteString(v)
		b.WriteByte('\n')
	case fmt.Stringer:
		b.WriteString(v.String())
		b.WriteByte('\n')
	default:
		generic, err := normalize(data)
		if err != nil {
			return err
		}
		if m, ok := generic.(map[string]interface{}); ok {
			for _, k := range sortedKeys(m) {
				fmt.Fprintf(&b, "%s: %s\n", k, formatValue(m[k]))
			}
		} else {
			b.WriteString(formatValue(generic))
			b.WriteByte('\n')
		}
	}
	if _, err := io.WriteString(f.writer, b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// PrintSuccess 成功提示
func (f *Formatter) PrintSuccess(message string) {
	if f.silent {
		return
	}
	_, _ = fmt.Fprint(f.logWriter, pterm.Success.Sprintln(message))
}

// PrintError 错误提示，静默模式下仍输出
func (f *Formatter) PrintError(err error) {
	_, _ = fmt.Fprint(f.logWriter, pterm.Error.Sprintln(err.Error()))
}

// PrintWarning 警告提示
func (f *Formatter) PrintWarning(message string) {
	if f.silent {
		return
	}
	_, _ = fmt.Fprint(f.logWriter, pterm.Warning.Sprintln(message))
}

// PrintInfo 信息提示
func (f *Formatter) PrintInfo(message string) {
	if f.silent {
		return
	}
	_, _ = fmt.Fprint(f.logWriter, pterm.Info.Sprintln(message))
}

// normalize 经 JSON 往返得到 map/slice/标量，使结构体与 MarshalText 类型按其 JSON 形式展示
func normalize(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	var out interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return out, nil
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "-"
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extractColumns 按首次出现顺序收集列名
func extractColumns(data []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range data {
		for _, key := range sortedKeys(row) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}
