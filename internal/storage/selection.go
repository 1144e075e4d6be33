package storage

import "fmt"

// Year is the archive partition key.
type Year = int

type dirKind int

const (
	kindWorking dirKind = iota
	kindArchive
	kindYear
	kindRoot
	kindTemplates
	kindExtras
	kindAll
)

// StorageDir identifies which part of the directory layout an
// operation targets.
type StorageDir struct {
	kind dirKind
	year Year
}

// DirWorking targets the working directory only.
var DirWorking = StorageDir{kind: kindWorking}

// DirRoot targets the storage root itself.
var DirRoot = StorageDir{kind: kindRoot}

// DirTemplates targets the template directory.
var DirTemplates = StorageDir{kind: kindTemplates}

// DirExtras targets the extras directory.
var DirExtras = StorageDir{kind: kindExtras}

// DirAll targets every archive partition plus the working directory.
var DirAll = StorageDir{kind: kindAll}

// DirArchive targets a single year's archive partition.
func DirArchive(year Year) StorageDir {
	return StorageDir{kind: kindArchive, year: year}
}

// DirYear targets the archive of year unioned with whatever part of
// the working directory still belongs to that year.
func DirYear(year Year) StorageDir {
	return StorageDir{kind: kindYear, year: year}
}

func (d StorageDir) String() string {
	switch d.kind {
	case kindWorking:
		return "working"
	case kindArchive:
		return fmt.Sprintf("archive/%d", d.year)
	case kindYear:
		return fmt.Sprintf("year/%d", d.year)
	case kindRoot:
		return "root"
	case kindTemplates:
		return "templates"
	case kindExtras:
		return "extras"
	case kindAll:
		return "all"
	}
	return "uninitialized"
}

type selectionKind int

const (
	selUninitialized selectionKind = iota
	selDirAndSearch
	selDir
	selPaths
)

// Selection describes which records an operation should act on. The
// zero value is uninitialized and never resolves.
type Selection struct {
	kind  selectionKind
	dir   StorageDir
	terms []string
	paths []string
}

// SelectDir selects every record under a directory.
func SelectDir(dir StorageDir) Selection {
	return Selection{kind: selDir, dir: dir}
}

// SelectDirAndSearch selects records under a directory matching any of
// the given terms. No terms means every record.
func SelectDirAndSearch(dir StorageDir, terms ...string) Selection {
	return Selection{kind: selDirAndSearch, dir: dir, terms: terms}
}

// SelectPaths selects an explicit list of record paths.
func SelectPaths(paths ...string) Selection {
	return Selection{kind: selPaths, paths: paths}
}

// DefaultSelection selects everything in the working directory.
func DefaultSelection() Selection {
	return SelectDirAndSearch(DirWorking)
}

func (s Selection) String() string {
	switch s.kind {
	case selDirAndSearch:
		return fmt.Sprintf("%s%v", s.dir, s.terms)
	case selDir:
		return s.dir.String()
	case selPaths:
		return fmt.Sprintf("paths%v", s.paths)
	}
	return "uninitialized"
}
