package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/takizuka/todo-backend/internal/infrastructure/log"
)

// DefaultReloadDelay 配置文件变更防抖延迟
const DefaultReloadDelay = 200 * time.Millisecond

// Watcher 配置文件监听器
// 监听配置文件所在目录（编辑器常以重命名方式保存文件），文件变化后重新加载并回调
type Watcher struct {
	path     string
	delay    time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	handlers []func(*Config)

	mu     sync.Mutex
	timer  *time.Timer
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWatcher 创建配置文件监听器
func NewWatcher() (*Watcher, error) {
	return NewWatcherForPath(FilePath(), DefaultReloadDelay)
}

// NewWatcherForPath 为指定配置文件创建监听器
func NewWatcherForPath(path string, delay time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	return &Watcher{
		path:    path,
		delay:   delay,
		watcher: fsWatcher,
		logger:  log.NewModuleLogger("config", "watcher"),
		stopCh:  make(chan struct{}),
	}, nil
}

// OnChange 注册配置变更回调，需在 Start 之前调用
func (w *Watcher) OnChange(fn func(*Config)) {
	w.handlers = append(w.handlers, fn)
}

// Start 启动监听
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	w.logger.Info("Config watcher started", "path", w.path)

	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}

// watchLoop 事件处理循环
func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", "error", err)
		}
	}
}

// scheduleReload 防抖后重新加载
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.reload)
}

// reload 重新加载配置并通知回调
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload config, keeping previous values",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("Config reloaded", "path", w.path)
	for _, fn := range w.handlers {
		fn(cfg)
	}
}
