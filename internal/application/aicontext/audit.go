package aicontext

import (
	"encoding/json"
	"sync"
	"time"

	"novel-assistant/pkg/metrics"
)

const (
	maxAuditEntries  = 1000
	keepAuditEntries = 500

	// DefaultLogLimit 读取操作日志的默认条数
	DefaultLogLimit = 50
)

// AuditEntry AI 操作日志条目，Fields 在序列化时平铺到顶层
type AuditEntry struct {
	Timestamp time.Time
	ProjectID *int64
	Operation string
	DataType  string
	Success   bool
	Fields    map[string]any
}

// MarshalJSON 输出 {timestamp, project_id, operation, data_type, success, ...fields}
func (e AuditEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["timestamp"] = e.Timestamp.Format(time.RFC3339Nano)
	out["project_id"] = e.ProjectID
	out["operation"] = e.Operation
	out["data_type"] = e.DataType
	out["success"] = e.Success
	return json.Marshal(out)
}

// AuditLog 进程内共享的 AI 操作日志，超过 1000 条时只保留最近 500 条
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// NewAuditLog 创建操作日志
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Append 追加一条日志
func (l *AuditLog) Append(e AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if len(l.entries) > maxAuditEntries {
		kept := make([]AuditEntry, keepAuditEntries)
		copy(kept, l.entries[len(l.entries)-keepAuditEntries:])
		l.entries = kept
	}
	metrics.AIAuditLogEntries.Set(float64(len(l.entries)))
}

// Recent 最近 limit 条，按追加顺序返回
func (l *AuditLog) Recent(limit int) []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]AuditEntry, limit)
	copy(out, l.entries[len(l.entries)-limit:])
	return out
}

// Len 当前条数
func (l *AuditLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear 清空日志
func (l *AuditLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	metrics.AIAuditLogEntries.Set(0)
}
