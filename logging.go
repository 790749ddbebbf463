package bvh

import "go.uber.org/zap"

// debugLog reports a Balance rotation or a Shuffle that actually
// changed a grouping. It is a no-op whenever the tree was built
// without a logger or with Config.Debug false, so production trees
// pay nothing for it beyond a nil check.
func (t *Tree) debugLog(msg string, fields ...zap.Field) {
	if t.log == nil || !t.config.Debug {
		return
	}
	t.log.Debug(msg, fields...)
}
