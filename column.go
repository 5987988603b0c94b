package silo

import "unsafe"

// column is one archetype's untyped storage for a single component: a
// contiguous byte buffer of rows() * info.size bytes. Growing appends one
// element; freeing the tail truncates by one element. Because Go slices
// retain their backing array's capacity across a truncate-then-append
// pair, this gives free-list-without-shrinking reuse without any separate
// bookkeeping.
type column struct {
	info *ComponentInfo
	buf  []byte
}

func newColumn(info *ComponentInfo) *column {
	c := &column{info: info}
	if cap := Config.archetypeInitialCapacity; cap > 0 {
		c.buf = make([]byte, 0, cap*int(info.size))
	}
	return c
}

func (c *column) rows() int {
	if c.info.size == 0 {
		return 0
	}
	return len(c.buf) / int(c.info.size)
}

func (c *column) ptr(row int) unsafe.Pointer {
	return unsafe.Pointer(&c.buf[uintptr(row)*c.info.size])
}

// grow appends one zeroed row of info.size bytes and runs the component's init (or
// zero-fills it) on the new slot.
func (c *column) grow() {
	c.buf = append(c.buf, make([]byte, c.info.size)...)
	c.runInit(c.rows() - 1)
}

// truncateTail drops the last row from the buffer. The backing array is
// not reallocated, so a later grow reuses the freed capacity.
func (c *column) truncateTail() {
	c.buf = c.buf[:len(c.buf)-int(c.info.size)]
}

func (c *column) runInit(row int) {
	p := c.ptr(row)
	if c.info.callbacks.Init != nil {
		c.info.callbacks.Init(p)
	} else {
		zeroBytes(p, c.info.size)
	}
}

func (c *column) runDestroy(row int) {
	if c.info.callbacks.Destroy != nil {
		c.info.callbacks.Destroy(c.ptr(row))
	}
}

// copyWithin runs the component's copy from srcRow to dstRow inside this
// same column (used by swap-remove).
func (c *column) copyWithin(srcRow, dstRow int) {
	c.runCopyTo(srcRow, c, dstRow)
}

// runCopyTo runs the component's copy from srcRow of c to dstRow of dst.
func (c *column) runCopyTo(srcRow int, dst *column, dstRow int) {
	src := c.ptr(srcRow)
	dp := dst.ptr(dstRow)
	if c.info.callbacks.Copy != nil {
		c.info.callbacks.Copy(src, dp, c.info.size)
	} else {
		copyBytes(dp, src, c.info.size)
	}
}

// copyFromPtr runs the component's copy from an arbitrary source pointer
// (a prefab blob) into dstRow of this column.
func (c *column) copyFromPtr(src unsafe.Pointer, dstRow int) {
	dst := c.ptr(dstRow)
	if c.info.callbacks.Copy != nil {
		c.info.callbacks.Copy(src, dst, c.info.size)
	} else {
		copyBytes(dst, src, c.info.size)
	}
}

func zeroBytes(p unsafe.Pointer, size uintptr) {
	b := unsafe.Slice((*byte)(p), int(size))
	for i := range b {
		b[i] = 0
	}
}

func copyBytes(dst, src unsafe.Pointer, size uintptr) {
	dstSlice := unsafe.Slice((*byte)(dst), int(size))
	srcSlice := unsafe.Slice((*byte)(src), int(size))
	copy(dstSlice, srcSlice)
}
