// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	abc "github.com/saferwall/abc"
	"github.com/saferwall/abc/tagio"
)

var (
	wantInts       bool
	wantUints      bool
	wantFloats     bool
	wantStrings    bool
	wantNamespaces bool
	wantMultinames bool
	wantAll        bool
	strict         bool
)

func prettyPrint(buf []byte) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		log.Println("JSON parse error: ", err)
		return string(buf)
	}
	return pretty.String()
}

// dumpablePool is a JSON-friendly projection of the decoded pool. The
// --all dump marshals the whole projection; each per-section flag
// marshals the matching field of it.
type dumpablePool struct {
	Ints       []int32             `json:"ints,omitempty"`
	Uints      []uint32            `json:"uints,omitempty"`
	Floats     []float64           `json:"floats,omitempty"`
	Strings    []string            `json:"strings,omitempty"`
	Namespaces []*abc.Namespace    `json:"namespaces,omitempty"`
	Multinames []*abc.Multiname    `json:"multinames,omitempty"`
	Sets       []*abc.NamespaceSet `json:"namespace_sets,omitempty"`
}

func toDumpable(pool *abc.Pool) dumpablePool {
	d := dumpablePool{}
	for i := 1; i < pool.Ints.Len(); i++ {
		d.Ints = append(d.Ints, pool.Ints.Get(i))
	}
	for i := 1; i < pool.Uints.Len(); i++ {
		d.Uints = append(d.Uints, pool.Uints.Get(i))
	}
	for i := 1; i < pool.Floats.Len(); i++ {
		d.Floats = append(d.Floats, pool.Floats.Get(i))
	}
	for i := 1; i < pool.Strings.Len(); i++ {
		d.Strings = append(d.Strings, pool.Strings.Get(i))
	}
	for i := 1; i < pool.Namespaces.Len(); i++ {
		d.Namespaces = append(d.Namespaces, pool.Namespaces.Get(i))
	}
	for i := 1; i < pool.NamespaceSets.Len(); i++ {
		d.Sets = append(d.Sets, pool.NamespaceSets.Get(i))
	}
	for i := 1; i < pool.Multinames.Len(); i++ {
		d.Multinames = append(d.Multinames, pool.Multinames.Get(i))
	}
	return d
}

// loadPool memory-maps filename and decodes a constant pool starting
// at offset 0 of the mapped region.
func loadPool(filename string) (*abc.Pool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer data.Unmap()

	pool := abc.NewPool()
	codec := abc.NewCodec(abc.Options{StrictMultinameTypes: strict})
	if err := codec.Read(tagio.NewReader(data), pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func dumpPool(filename string, cmd *cobra.Command) {
	log.Printf("Processing filename %s", filename)

	pool, err := loadPool(filename)
	if err != nil {
		log.Printf("Error while parsing file: %s, reason: %s", filename, err)
		return
	}

	if wantInts {
		b, _ := json.Marshal(toDumpable(pool).Ints)
		fmt.Println(prettyPrint(b))
	}
	if wantUints {
		b, _ := json.Marshal(toDumpable(pool).Uints)
		fmt.Println(prettyPrint(b))
	}
	if wantFloats {
		b, _ := json.Marshal(toDumpable(pool).Floats)
		fmt.Println(prettyPrint(b))
	}
	if wantStrings {
		b, _ := json.Marshal(toDumpable(pool).Strings)
		fmt.Println(prettyPrint(b))
	}
	if wantNamespaces {
		d := toDumpable(pool)
		namespaces, _ := json.Marshal(d.Namespaces)
		sets, _ := json.Marshal(d.Sets)
		fmt.Println(prettyPrint(namespaces))
		fmt.Println(prettyPrint(sets))
	}
	if wantMultinames {
		b, _ := json.Marshal(toDumpable(pool).Multinames)
		fmt.Println(prettyPrint(b))
	}
	if wantAll {
		b, _ := json.Marshal(toDumpable(pool))
		fmt.Println(prettyPrint(b))
	}
}

func dump(cmd *cobra.Command, args []string) {
	for _, filename := range args {
		dumpPool(filename, cmd)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "abcdump",
		Short: "An AVM2 ABC constant pool dumper",
		Long:  "Decodes and dumps the constant pool of an AVM2 ABC file",
		Run: func(cmd *cobra.Command, args []string) {
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Long:  "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print("You are using version 0.0.1")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps the constant pool",
		Long:  "Decodes and dumps an AVM2 ABC constant pool section",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().BoolVarP(&wantInts, "ints", "", false, "Dump integer constants")
	dumpCmd.Flags().BoolVarP(&wantUints, "uints", "", false, "Dump unsigned integer constants")
	dumpCmd.Flags().BoolVarP(&wantFloats, "floats", "", false, "Dump float constants")
	dumpCmd.Flags().BoolVarP(&wantStrings, "strings", "", false, "Dump string constants")
	dumpCmd.Flags().BoolVarP(&wantNamespaces, "namespaces", "", false, "Dump namespaces and namespace sets")
	dumpCmd.Flags().BoolVarP(&wantMultinames, "multinames", "", false, "Dump multinames")
	dumpCmd.Flags().BoolVarP(&wantAll, "all", "", false, "Dump everything")
	dumpCmd.Flags().BoolVarP(&strict, "strict", "", false, "Abort on unrecognized multiname types")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
