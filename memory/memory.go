// Package memory implements the 1750A's 20-bit physical address space as a
// sparse, page-allocated store with per-word "written" tracking, in the style
// of the teacher's emu/memory package (lazy pages, plain get/put, no locking
// since the simulator is single-threaded).
package memory

const (
	wordsPerPage = 4096
	numPages     = 256 // 2^20 words / 4096 words per page.
	addrMask     = (numPages * wordsPerPage) - 1
)

type page struct {
	word [wordsPerPage]uint16
	init [wordsPerPage / 64]uint64 // bitset of "has been written" bits.
}

func (p *page) written(off int) bool {
	return p.init[off/64]&(1<<(uint(off)%64)) != 0
}

func (p *page) markWritten(off int) {
	p.init[off/64] |= 1 << (uint(off) % 64)
}

func (p *page) clear() {
	for i := range p.word {
		p.word[i] = 0
	}
	for i := range p.init {
		p.init[i] = 0
	}
}

// Memory is the 1 Mword physical store. The zero value is ready to use except
// that Init should be called once to eagerly allocate page 0, matching the
// teacher's convention of having memory usable without an explicit setup call
// but cheap to reset.
type Memory struct {
	pages [numPages]*page
}

// Init zeros every allocated page and clears all initialized bits, then
// eagerly allocates page 0 for convenience. Page allocation elsewhere remains
// monotonic within a run: Init never frees pages, only zeros them.
func (m *Memory) Init() {
	for i, p := range m.pages {
		if p != nil {
			p.clear()
		} else if i == 0 {
			m.pages[0] = &page{}
		}
	}
}

func (m *Memory) pageFor(phys uint32) *page {
	idx := (phys & addrMask) >> 12
	p := m.pages[idx]
	if p == nil {
		p = &page{}
		m.pages[idx] = p
	}
	return p
}

func checkAddr(phys uint32) {
	if phys > addrMask {
		panic("memory: physical address out of range")
	}
}

// Peek returns the stored word and whether it has ever been written.
// Allocates the containing page on first touch.
func (m *Memory) Peek(phys uint32) (word uint16, wasWritten bool) {
	checkAddr(phys)
	p := m.pageFor(phys)
	off := int(phys & 0xFFF)
	return p.word[off], p.written(off)
}

// Poke stores a word and marks it written. Allocates on first touch.
func (m *Memory) Poke(phys uint32, word uint16) {
	checkAddr(phys)
	p := m.pageFor(phys)
	off := int(phys & 0xFFF)
	p.word[off] = word
	p.markWritten(off)
}

// WasWritten reports whether a word has been written without allocating its
// page (an unallocated page is, by definition, never written).
func (m *Memory) WasWritten(phys uint32) bool {
	checkAddr(phys)
	idx := (phys & addrMask) >> 12
	p := m.pages[idx]
	if p == nil {
		return false
	}
	return p.written(int(phys & 0xFFF))
}
