// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package types

import (
	"fmt"
	"strings"
)

// EventFlag is a bitset describing categories of filesystem change.
// The values match the numeric event flags printed by `fswatch --numeric`.
type EventFlag uint32

const (
	NoOp              EventFlag = 0
	PlatformSpecific  EventFlag = 1 << (iota - 1)
	Created
	Updated
	Removed
	Renamed
	OwnerModified
	AttributeModified
	MovedFrom
	MovedTo
	IsFile
	IsDir
	IsSymLink
	Link
	Overflow
)

var flagNames = []struct {
	flag EventFlag
	name string
}{
	{PlatformSpecific, "PlatformSpecific"},
	{Created, "Created"},
	{Updated, "Updated"},
	{Removed, "Removed"},
	{Renamed, "Renamed"},
	{OwnerModified, "OwnerModified"},
	{AttributeModified, "AttributeModified"},
	{MovedFrom, "MovedFrom"},
	{MovedTo, "MovedTo"},
	{IsFile, "IsFile"},
	{IsDir, "IsDir"},
	{IsSymLink, "IsSymLink"},
	{Link, "Link"},
	{Overflow, "Overflow"},
}

// Union combines flags with bitwise OR.
func Union(flags ...EventFlag) (ret EventFlag) {
	for i := range flags {
		ret |= flags[i]
	}
	return
}

// Intersects reports whether f shares at least one bit with mask.
// This is the only matching rule used between events and interest masks.
func (f EventFlag) Intersects(mask EventFlag) bool {
	return f&mask != 0
}

// Has reports whether every bit of mask is set in f.
// It is not a matching rule: events are matched against interest masks
// with Intersects only.
func (f EventFlag) Has(mask EventFlag) bool {
	return f&mask == mask
}

// Split returns the single-bit flags set in f, lowest bit first.
func (f EventFlag) Split() (ret []EventFlag) {
	for i := range flagNames {
		if f&flagNames[i].flag != 0 {
			ret = append(ret, flagNames[i].flag)
		}
	}
	return
}

// Name returns the name of a single flag, or "" if f is not one.
func (f EventFlag) Name() string {
	if f == NoOp {
		return "NoOp"
	}

	for i := range flagNames {
		if flagNames[i].flag == f {
			return flagNames[i].name
		}
	}

	return ""
}

func (f EventFlag) String() string {
	if f == NoOp {
		return "NoOp"
	}

	var (
		names []string
		rest  = f
	)
	for i := range flagNames {
		if f&flagNames[i].flag == 0 {
			continue
		}
		names = append(names, flagNames[i].name)
		rest &^= flagNames[i].flag
	}

	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}

	return strings.Join(names, "|")
}

// ParseFlag parses a flag name as printed by EventFlag.Name.
func ParseFlag(name string) (ret EventFlag, err error) {
	if name == "NoOp" {
		return NoOp, nil
	}

	for i := range flagNames {
		if flagNames[i].name == name {
			ret = flagNames[i].flag
			return
		}
	}

	err = &ErrUnknownFlag{Name: name}
	return
}

// ParseFlags parses a list of flag names and returns them in order.
func ParseFlags(names []string) (ret []EventFlag, err error) {
	ret = make([]EventFlag, 0, len(names))
	for i := range names {
		var flag EventFlag
		flag, err = ParseFlag(names[i])
		if err != nil {
			ret = nil
			return
		}
		ret = append(ret, flag)
	}
	return
}

type ErrUnknownFlag struct {
	Name string
}

func (e *ErrUnknownFlag) Error() string {
	return fmt.Sprintf("unknown event flag %q", e.Name)
}
