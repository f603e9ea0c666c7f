package reconcile

import (
	"fmt"
	"strings"
)

// DedupAndChunk collapses records sharing a composite unique key to the last
// one seen, then splits the result into chunks of at most maxChunkSize.
// An empty uniqueAttributes keeps every record. maxChunkSize <= 0 returns a
// single chunk.
func DedupAndChunk(values []ValueRecord, uniqueAttributes []string, maxChunkSize int) [][]ValueRecord {
	deduped, _ := Deduplicate(values, uniqueAttributes, LastWriteWins)
	return Chunk(deduped, maxChunkSize)
}

// Deduplicate removes records sharing a composite unique key according to
// policy. The surviving record of a key takes the position of the key's first
// occurrence. The composite key is the plain concatenation of the values'
// string forms, so "ab"+"c" and "a"+"bc" collide.
func Deduplicate(values []ValueRecord, uniqueAttributes []string, policy CollisionPolicy) ([]ValueRecord, error) {
	if len(uniqueAttributes) == 0 {
		return values, nil
	}

	out := make([]ValueRecord, 0, len(values))
	index := make(map[string]int, len(values))
	for _, v := range values {
		key := compositeKey(v, uniqueAttributes)
		pos, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, v)
			continue
		}
		switch policy {
		case FirstWriteWins:
			// keep the earlier record
		case RejectCollisions:
			return nil, &CollisionError{Key: key}
		default:
			out[pos] = v
		}
	}
	return out, nil
}

// Chunk splits values into contiguous chunks of at most size records,
// preserving order. size <= 0 returns one chunk with everything.
func Chunk(values []ValueRecord, size int) [][]ValueRecord {
	if len(values) == 0 {
		return nil
	}
	if size <= 0 || len(values) <= size {
		return [][]ValueRecord{values}
	}

	chunks := make([][]ValueRecord, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end:end])
	}
	return chunks
}

func compositeKey(v ValueRecord, attrs []string) string {
	var b strings.Builder
	for _, a := range attrs {
		switch t := v[a].(type) {
		case nil:
		case string:
			b.WriteString(t)
		case []byte:
			b.Write(t)
		default:
			fmt.Fprint(&b, t)
		}
	}
	return b.String()
}
