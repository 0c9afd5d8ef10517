// Package checksum 提供各国税务标识的校验算法
//
// 所有验证器都是无状态的纯函数：
//   - 格式错误的候选值返回 false，不返回错误
//   - 可被任意数量的 goroutine 并发调用，无需加锁
//   - 时间复杂度与输入长度成正比
//
// 校验强度（core.Strength）区分三类验证器：
//   - ItalianTaxCode / ItalianVAT：完整的校验和算法
//   - SpanishVAT：仅检查前缀和长度
//   - UnimplementedAlwaysValid：占位实现，接受任何输入
package checksum
