package server

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 请求ID采用 Snowflake 布局：41位毫秒时间戳 | 10位节点ID | 12位序列号
const (
	// requestIDEpoch 起始时间戳 (2024-01-01 00:00:00 UTC)
	requestIDEpoch int64 = 1704067200000

	nodeIDBits   = 10
	sequenceBits = 12

	// MaxNodeID 节点ID上限 [0, 1023]
	MaxNodeID   = -1 ^ (-1 << nodeIDBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	nodeIDShift    = sequenceBits
	timestampShift = sequenceBits + nodeIDBits

	// 时钟回拨容忍时间（毫秒），容忍范围内沿用上次时间戳
	maxClockBackwardTolerance = 5

	// HeaderRequestID 请求ID头
	HeaderRequestID = "X-Request-ID"

	// maxIncomingRequestIDLength 客户端传入请求ID的最大长度，超出时重新生成
	maxIncomingRequestIDLength = 64

	requestIDKey = "request_id"
)

var (
	// ErrInvalidNodeID 节点ID超出范围
	ErrInvalidNodeID = errors.New("invalid node id")
	// ErrClockBackward 时钟回拨超出容忍范围
	ErrClockBackward = errors.New("clock moved backwards")
)

// idGenerator 请求ID生成器（线程安全）
type idGenerator struct {
	mu            sync.Mutex
	nodePart      int64
	lastTimestamp int64
	sequence      int64
	now           func() int64
}

// newIDGenerator 创建请求ID生成器
func newIDGenerator(nodeID int64) (*idGenerator, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("%w: must be between 0 and %d, got %d", ErrInvalidNodeID, MaxNodeID, nodeID)
	}
	return &idGenerator{
		nodePart:      nodeID << nodeIDShift,
		lastTimestamp: -1,
		now:           func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// NextID 生成下一个ID
func (g *idGenerator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.now()
	if timestamp < g.lastTimestamp {
		offset := g.lastTimestamp - timestamp
		if offset > maxClockBackwardTolerance {
			return 0, fmt.Errorf("%w: by %dms", ErrClockBackward, offset)
		}
		timestamp = g.lastTimestamp
	}

	if timestamp == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			timestamp = g.waitNextMillis(g.lastTimestamp)
		}
	} else {
		g.sequence = 0
	}

	g.lastTimestamp = timestamp
	return ((timestamp - requestIDEpoch) << timestampShift) | g.nodePart | g.sequence, nil
}

// waitNextMillis 序列号用尽时等待下一毫秒
func (g *idGenerator) waitNextMillis(last int64) int64 {
	timestamp := g.now()
	for timestamp <= last {
		time.Sleep(100 * time.Microsecond)
		timestamp = g.now()
	}
	return timestamp
}

// requestID 为每个请求分配请求ID，客户端已提供时沿用
func requestID(gen *idGenerator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxIncomingRequestIDLength {
			next, err := gen.NextID()
			if err != nil {
				logger.Warn("failed to generate request id", zap.Error(err))
				c.Next()
				return
			}
			id = strconv.FormatInt(next, 10)
		}

		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
