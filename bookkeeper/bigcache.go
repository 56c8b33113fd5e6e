package bookkeeper

import (
	"github.com/allegro/bigcache"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.uber.org/zap"
	"strconv"
	"time"
)

type bigCacheBK struct {
	cache      *bigcache.BigCache
	lifeWindow time.Duration
}

func spanKey(id uint64) string {
	return "s-" + strconv.FormatUint(id, 10)
}

func (bc *bigCacheBK) MarkSpanClosed(id uint64) {
	logger := util.GetLogger("bookkeeper", "bigCacheBK::MarkSpanClosed")
	err := bc.mark(spanKey(id), ClosedSpan)
	if err != nil {
		logger.Warn("Error when trying to write to cache", zap.Uint64("id", id), zap.Error(err))
	}
}

func (bc *bigCacheBK) MarkSpanRejected(id uint64) {
	logger := util.GetLogger("bookkeeper", "bigCacheBK::MarkSpanRejected")
	err := bc.mark(spanKey(id), RejectedSpan)
	if err != nil {
		logger.Warn("Error when trying to write to cache", zap.Uint64("id", id), zap.Error(err))
	}
}

// A miss and a read error both read as UnknownSpan.
func (bc *bigCacheBK) SpanState(id uint64) SpanState {
	data, _ := bc.cache.Get(spanKey(id))
	if len(data) == 0 {
		return UnknownSpan
	}
	return SpanState(data[0])
}

func (bc *bigCacheBK) init() error {
	config := bigcache.DefaultConfig(bc.lifeWindow)
	config.Verbose = false
	var err error
	bc.cache, err = bigcache.NewBigCache(config)
	return err
}

func (bc *bigCacheBK) Discard() error {
	return bc.cache.Reset()
}

func (bc *bigCacheBK) Close() error {
	return bc.cache.Reset()
}

func (bc *bigCacheBK) mark(key string, state SpanState) error {
	return bc.cache.Set(key, []byte{byte(state)})
}
