//go:build windows && (amd64 || arm64)

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Placeholder and region constants missing from x/sys/windows.
const (
	memReservePlaceholder  = 0x00040000
	memReplacePlaceholder  = 0x00004000
	memPreservePlaceholder = 0x00000002
	memFree                = 0x00010000
	memMapped              = 0x00040000
)

var (
	modkernel32   = windows.NewLazySystemDLL("kernel32.dll")
	modkernelbase = windows.NewLazySystemDLL("kernelbase.dll")

	procGetSystemInfo  = modkernel32.NewProc("GetSystemInfo")
	procVirtualAlloc2  = modkernelbase.NewProc("VirtualAlloc2")
	procMapViewOfFile3 = modkernelbase.NewProc("MapViewOfFile3")
)

// systemInfo mirrors SYSTEM_INFO.
type systemInfo struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

type systemMapper struct{}

// sectionBacking is a pagefile-backed section object.
type sectionBacking struct {
	handle windows.Handle
	size   int
}

func (b *sectionBacking) Size() int {
	return b.size
}

func (b *sectionBacking) Close() error {
	if b.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(b.handle)
	b.handle = 0
	if err != nil {
		return &Error{Op: "CloseHandle", Err: err}
	}
	return nil
}

// Granularity returns the allocation granularity, which is what
// placeholder splits and view placement are aligned to.
func (systemMapper) Granularity() int {
	var info systemInfo
	procGetSystemInfo.Call(uintptr(unsafe.Pointer(&info)))
	if info.AllocationGranularity == 0 {
		return 64 * 1024
	}
	return int(info.AllocationGranularity)
}

// CreateBacking creates an unnamed section of exactly size bytes.
func (systemMapper) CreateBacking(size int) (Backing, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	maxSizeHigh := uint32(uint64(size) >> 32)
	maxSizeLow := uint32(size)

	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, maxSizeHigh, maxSizeLow, nil)
	if err != nil {
		return nil, &Error{Op: "CreateFileMapping", Err: err}
	}
	return &sectionBacking{handle: h, size: size}, nil
}

// Reserve creates a single placeholder of size bytes.
func (systemMapper) Reserve(size int) (uintptr, error) {
	if size <= 0 {
		return 0, ErrInvalidSize
	}
	if err := procVirtualAlloc2.Find(); err != nil {
		return 0, &Error{Op: "VirtualAlloc2", Err: ErrUnsupported}
	}

	addr, _, e := procVirtualAlloc2.Call(
		0, 0,
		uintptr(size),
		windows.MEM_RESERVE|memReservePlaceholder,
		windows.PAGE_NOACCESS,
		0, 0)
	if addr == 0 {
		return 0, &Error{Op: "VirtualAlloc2", Err: e}
	}
	return addr, nil
}

// MapFixed splits [addr, addr+size) off the placeholder and replaces it
// with a read/write view of the section.
func (systemMapper) MapFixed(b Backing, addr uintptr, size int) error {
	sb, ok := b.(*sectionBacking)
	if !ok {
		return ErrForeignBacking
	}
	if sb.handle == 0 {
		return ErrClosed
	}
	if addr == 0 {
		return ErrInvalidAddress
	}
	if size <= 0 || size > sb.size {
		return ErrInvalidSize
	}
	if err := procMapViewOfFile3.Find(); err != nil {
		return &Error{Op: "MapViewOfFile3", Err: ErrUnsupported}
	}

	// Fails when the placeholder is already exactly this size; nothing to split then.
	windows.VirtualFree(addr, uintptr(size), windows.MEM_RELEASE|memPreservePlaceholder)

	view, _, e := procMapViewOfFile3.Call(
		uintptr(sb.handle),
		uintptr(windows.CurrentProcess()),
		addr,
		0,
		uintptr(size),
		memReplacePlaceholder,
		windows.PAGE_READWRITE,
		0, 0)
	if view == 0 {
		return &Error{Op: "MapViewOfFile3", Err: e}
	}
	if view != addr {
		windows.UnmapViewOfFile(view)
		return ErrMisplaced
	}
	return nil
}

// Unmap removes the view at addr.
func (systemMapper) Unmap(addr uintptr, size int) error {
	if addr == 0 {
		return ErrInvalidAddress
	}
	if err := windows.UnmapViewOfFile(addr); err != nil {
		return &Error{Op: "UnmapViewOfFile", Err: err}
	}
	return nil
}

// Release walks [addr, addr+size) and frees every placeholder and view
// still present. Split placeholders are separate regions, each released
// on its own.
func (systemMapper) Release(addr uintptr, size int) error {
	if addr == 0 {
		return ErrInvalidAddress
	}
	if size <= 0 {
		return ErrInvalidSize
	}

	end := addr + uintptr(size)
	for p := addr; p < end; {
		var mbi windows.MemoryBasicInformation
		if err := windows.VirtualQuery(p, &mbi, unsafe.Sizeof(mbi)); err != nil {
			return &Error{Op: "VirtualQuery", Err: err}
		}
		if mbi.RegionSize == 0 {
			break
		}

		switch {
		case mbi.State == memFree:
		case mbi.Type == memMapped:
			if err := windows.UnmapViewOfFile(mbi.BaseAddress); err != nil {
				return &Error{Op: "UnmapViewOfFile", Err: err}
			}
		case mbi.State == windows.MEM_RESERVE:
			if err := windows.VirtualFree(mbi.BaseAddress, 0, windows.MEM_RELEASE); err != nil {
				return &Error{Op: "VirtualFree", Err: err}
			}
		}

		p = mbi.BaseAddress + mbi.RegionSize
	}
	return nil
}
