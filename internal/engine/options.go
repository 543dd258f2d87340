/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package engine

import "os"

type Options struct {
	// DirectoryPath is the path to the data directory
	DirectoryPath string

	// DataFileSize is the size of the data file
	DataFileSize int64

	// SyncWrites indicates whether to sync for every write to disk
	SyncWrites bool

	// BytesPerSync indicates the cumulative number of bytes written before syncing to disk
	BytesPerSync uint

	// IndexType defines the type for index
	IndexType IndexerType

	// MMapAtStartUp indicates whether to use mmap to load the data file at startup
	MMapAtStartUp bool

	// DataFileMergeRatio indicates the threshold of the data file size to the merge size
	DataFileMergeRatio float32

	// CompactionFilter is consulted for every live record encountered while
	// merging data files. It plays the role of a background compaction filter:
	// a nil filter keeps every record, matching prior behavior.
	CompactionFilter CompactionFilter
}

// CompactionDecision is the outcome a CompactionFilter returns for one record.
type CompactionDecision int8

const (
	// CompactionKeep carries the record forward into the merged file.
	CompactionKeep CompactionDecision = iota
	// CompactionDrop discards the record; it will not appear in the merged file.
	CompactionDrop
)

// CompactionFilter inspects a live (key, value) pair during merge and
// decides whether it survives into the compacted data file. Implementations
// must be safe to call from the merge goroutine and should default to
// CompactionKeep on uncertainty to avoid data loss.
type CompactionFilter interface {
	Filter(key, value []byte) CompactionDecision
}

// CompactionFilterFunc adapts a plain function to CompactionFilter.
type CompactionFilterFunc func(key, value []byte) CompactionDecision

func (f CompactionFilterFunc) Filter(key, value []byte) CompactionDecision {
	return f(key, value)
}

// IteratorOptions defines the index iterator configuration options
type IteratorOptions struct {
	// Prefix denotes the iteration for the key with given prefix, default null
	Prefix []byte

	// Reverse indicates whether to traverse in reverse direction
	// the default value is false, which means forward traversal
	Reverse bool
}

// WriteBatchOptions defines batch writing configuration options
type WriteBatchOptions struct {
	// MaxBatchNum denotes the max data size within a batch
	MaxBatchNum uint

	// SyncWrites denotes whether to sync the disk when commiting
	SyncWrites bool
}

type IndexerType = int8

const (
	// BTree indicates btree index
	BTree IndexerType = iota + 1

	// ART indicates Adaptive Radix Tree index
	ART

	// BPlusTree indicates b+tree index
	BPlusTree
)

var DefaultOptions = Options{
	DirectoryPath:      os.TempDir(),
	DataFileSize:       256 * 1024 * 1024, // 256MB
	SyncWrites:         false,
	BytesPerSync:       0,
	IndexType:          BTree,
	MMapAtStartUp:      true,
	DataFileMergeRatio: 0.5,
}

var DefaultIteratorOptions = IteratorOptions{
	Prefix:  nil,
	Reverse: false,
}

var DefaultWriteBatchOptions = WriteBatchOptions{
	MaxBatchNum: 10000,
	SyncWrites:  true,
}
