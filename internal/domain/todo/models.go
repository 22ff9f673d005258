package todo

import "time"

// MaxUnfinished 未完成待办数量上限
const MaxUnfinished = 5

// MaxTitleLength 标题最大长度（字符数）
const MaxTitleLength = 30

// Todo 待办事项实体
type Todo struct {
	ID        int64     // 唯一标识，持久化前为 0
	Title     string    // 标题
	Finished  bool      // 是否完成
	CreatedAt time.Time // 创建时间
}

// IsPersisted 是否已分配 ID
func (t *Todo) IsPersisted() bool {
	return t.ID != 0
}

// MarkFinished 标记为完成
// 完成状态只能从 false 变为 true
func (t *Todo) MarkFinished() {
	t.Finished = true
}

// DateTimeLayout 对外展示的时间格式（yyyy/MM/dd HH:mm:ss）
const DateTimeLayout = "2006/01/02 15:04:05"
