// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package inotify

import (
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/black-desk/dirwatch/pkg/interfaces"
	"github.com/black-desk/dirwatch/pkg/types"
	. "github.com/black-desk/lib/go/errwrap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const bufferSize = 4096 * (unix.SizeofInotifyEvent + unix.NAME_MAX + 1)

type Primitive struct {
	fd     int
	wakeFd int
	closed atomic.Bool
	once   sync.Once
	buf    []byte

	log *zap.SugaredLogger
}

var _ interfaces.Primitive = &Primitive{}

func New(opts ...Opt) (ret *Primitive, err error) {
	defer Wrap(&err, "create inotify primitive")

	p := &Primitive{
		fd:     -1,
		wakeFd: -1,
	}

	for i := range opts {
		p, err = opts[i](p)
		if err != nil {
			return
		}
	}

	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}

	p.fd, err = unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		err = &fs.PathError{Op: "inotify_init1", Path: "", Err: err}
		return
	}

	p.wakeFd, err = unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		_ = unix.Close(p.fd)
		err = &fs.PathError{Op: "eventfd", Path: "", Err: err}
		return
	}

	p.buf = make([]byte, bufferSize)

	p.log.Debugw("Inotify instance created.",
		"fd", p.fd,
	)

	ret = p
	return
}

func (p *Primitive) AddWatch(path string, mask types.EventFlag) (handle types.Handle, err error) {
	handle = types.InvalidHandle

	if p.closed.Load() {
		err = ErrClosed
		return
	}

	var wd int
	wd, err = unix.InotifyAddWatch(p.fd, path, toInotifyMask(mask))
	if err != nil {
		err = &fs.PathError{Op: "inotify_add_watch", Path: path, Err: err}
		return
	}

	handle = types.Handle(wd)
	return
}

func (p *Primitive) RemoveWatch(handle types.Handle) (err error) {
	if p.closed.Load() {
		err = ErrClosed
		return
	}

	_, err = unix.InotifyRmWatch(p.fd, uint32(handle))
	if errors.Is(err, unix.EINVAL) {
		// NOTE: The kernel drops the watch by itself
		// when the watched inode goes away.
		err = nil
	}
	return
}

// Read returns every event queued in the kernel buffer.
func (p *Primitive) Read() (ret []types.RawEvent, err error) {
	defer Wrap(&err, "read inotify events")

	if p.closed.Load() {
		err = ErrClosed
		return
	}

	for {
		var n int
		n, err = unix.Read(p.fd, p.buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.EAGAIN) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		ret = append(ret, parse(p.buf[:n])...)
		if n < len(p.buf)/2 {
			return
		}
	}
}

func (p *Primitive) WaitReadable(ctx context.Context) (err error) {
	if p.closed.Load() {
		err = ErrClosed
		return
	}

	stop := context.AfterFunc(ctx, p.wake)
	defer stop()

	fds := []unix.PollFd{
		{Fd: int32(p.fd), Events: unix.POLLIN},
		{Fd: int32(p.wakeFd), Events: unix.POLLIN},
	}

	for {
		fds[0].Revents = 0
		fds[1].Revents = 0

		_, err = unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			return nil
		}

		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			err = ErrClosed
			return
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			p.drainWake()

			if err = ctx.Err(); err != nil {
				return
			}

			if p.closed.Load() {
				err = ErrClosed
				return
			}
		}
	}
}

func (p *Primitive) Close() (err error) {
	p.once.Do(func() {
		p.closed.Store(true)

		p.log.Debugw("Close inotify instance.",
			"fd", p.fd,
		)

		err = multierr.Append(unix.Close(p.fd), unix.Close(p.wakeFd))
	})
	return
}

func (p *Primitive) wake() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(p.wakeFd, buf[:])
}

func (p *Primitive) drainWake() {
	var buf [8]byte
	_, _ = unix.Read(p.wakeFd, buf[:])
}

func parse(buf []byte) (ret []types.RawEvent) {
	for offset := 0; offset+unix.SizeofInotifyEvent <= len(buf); {
		raw := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))

		nameStart := offset + unix.SizeofInotifyEvent
		nameEnd := nameStart + int(raw.Len)
		if nameEnd > len(buf) {
			return
		}

		ret = append(ret, toRawEvent(
			raw.Wd, raw.Mask,
			strings.TrimRight(string(buf[nameStart:nameEnd]), "\x00"),
		))

		offset = nameEnd
	}

	return
}

var maskTable = []struct {
	flag types.EventFlag
	mask uint32
}{
	{types.Created, unix.IN_CREATE},
	{types.Updated, unix.IN_MODIFY},
	{types.Removed, unix.IN_DELETE | unix.IN_DELETE_SELF},
	{types.Renamed, unix.IN_MOVE_SELF},
	{types.AttributeModified, unix.IN_ATTRIB},
	{types.OwnerModified, unix.IN_ATTRIB},
	{types.MovedFrom, unix.IN_MOVED_FROM},
	{types.MovedTo, unix.IN_MOVED_TO},
}

func toInotifyMask(flags types.EventFlag) (ret uint32) {
	for i := range maskTable {
		if flags.Intersects(maskTable[i].flag) {
			ret |= maskTable[i].mask
		}
	}
	return
}

func toRawEvent(wd int32, mask uint32, name string) types.RawEvent {
	ret := types.RawEvent{
		Handle: types.Handle(wd),
		Name:   name,
	}

	for i := range maskTable {
		// NOTE: IN_ATTRIB stands for AttributeModified only.
		if maskTable[i].flag == types.OwnerModified {
			continue
		}
		if mask&maskTable[i].mask != 0 {
			ret.Flags |= maskTable[i].flag
		}
	}

	if mask&unix.IN_ISDIR != 0 {
		ret.Flags |= types.IsDir
	}

	if mask&unix.IN_UNMOUNT != 0 {
		ret.Flags |= types.PlatformSpecific
	}

	if mask&unix.IN_Q_OVERFLOW != 0 {
		ret.Flags |= types.Overflow
		ret.Handle = types.InvalidHandle
	}

	if mask&unix.IN_IGNORED != 0 {
		ret.Ignored = true
	}

	return ret
}
