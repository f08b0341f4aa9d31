// Package homedir creates and removes user home directory trees: a
// recursive skeleton copy preserving mode, ownership, symlink structure,
// and extended attributes, and a recursive delete that refuses to cross
// mount points.
package homedir

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/accountd/accountd/pkg/accounterr"
)

// Create copies the skeleton directory tree at skelDir to home, setting
// every created entry's owner to uid:gid. When home already exists,
// Create does nothing, so existing entries are never overwritten.
func Create(skelDir, home string, uid, gid uint32) error {
	if _, err := os.Lstat(home); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return accounterr.Wrap(accounterr.HomeDirCreate, err)
	}
	if _, err := os.Stat(skelDir); err != nil {
		if os.IsNotExist(err) {
			return mkHome(home, uid, gid)
		}
		return accounterr.Wrap(accounterr.HomeDirCreate, err)
	}
	if err := mkHome(home, uid, gid); err != nil {
		return err
	}
	return copyTree(skelDir, home, uid, gid)
}

func mkHome(home string, uid, gid uint32) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return accounterr.Wrap(accounterr.HomeDirCreate, err)
	}
	if err := unix.Lchown(home, int(uid), int(gid)); err != nil {
		return accounterr.Wrap(accounterr.HomeDirCreate, err)
	}
	return nil
}

func copyTree(src, dst string, uid, gid uint32) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return accounterr.Wrap(accounterr.HomeDirCopy, err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := copyEntry(srcPath, dstPath, uid, gid); err != nil {
			return err
		}
	}
	return nil
}

func copyEntry(src, dst string, uid, gid uint32) error {
	info, err := os.Lstat(src)
	if err != nil {
		return accounterr.Wrap(accounterr.HomeDirCopy, err)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return accounterr.Wrap(accounterr.HomeDirCopy, err)
		}
		if err := os.Symlink(target, dst); err != nil && !os.IsExist(err) {
			return accounterr.Wrap(accounterr.HomeDirCopy, err)
		}
		_ = unix.Lchown(dst, int(uid), int(gid))
		return nil

	case info.IsDir():
		if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return accounterr.Wrap(accounterr.HomeDirCopy, err)
		}
		if err := unix.Lchown(dst, int(uid), int(gid)); err != nil {
			return accounterr.Wrap(accounterr.HomeDirCopy, err)
		}
		if err := copyXattrs(src, dst); err != nil {
			return err
		}
		return copyTree(src, dst, uid, gid)

	default:
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return err
		}
		if err := unix.Lchown(dst, int(uid), int(gid)); err != nil {
			return accounterr.Wrap(accounterr.HomeDirCopy, err)
		}
		return copyXattrs(src, dst)
	}
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return accounterr.Wrap(accounterr.HomeDirCopy, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return accounterr.Wrap(accounterr.HomeDirCopy, err)
	}
	defer out.Close()

	buf := make([]byte, 64*1024)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return accounterr.Wrap(accounterr.HomeDirCopy, werr)
			}
		}
		if rerr != nil {
			break
		}
	}
	return nil
}

// copyXattrs propagates the extended attribute set of src onto dst,
// best-effort: most filesystems either don't support xattrs or reject
// attributes from an unprivileged caller, neither of which should abort
// the home directory copy.
func copyXattrs(src, dst string) error {
	size, err := unix.Llistxattr(src, nil)
	if err != nil || size <= 0 {
		return nil
	}
	names := make([]byte, size)
	if _, err := unix.Llistxattr(src, names); err != nil {
		return nil
	}
	for _, name := range splitXattrNames(names) {
		vsize, err := unix.Lgetxattr(src, name, nil)
		if err != nil || vsize <= 0 {
			continue
		}
		value := make([]byte, vsize)
		if _, err := unix.Lgetxattr(src, name, value); err != nil {
			continue
		}
		_ = unix.Lsetxattr(dst, name, value, 0)
	}
	return nil
}

func splitXattrNames(buf []byte) []string {
	var out []string
	start := 0
	for i, b := range buf {
		if b == 0 {
			if i > start {
				out = append(out, string(buf[start:i]))
			}
			start = i + 1
		}
	}
	return out
}

// Delete recursively removes home, refusing to descend across a mount
// point boundary (comparing unix.Stat_t.Dev between home and each
// descendant before unlinking it).
func Delete(home string) error {
	info, err := os.Lstat(home)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return accounterr.Wrap(accounterr.HomeDirDelete, err)
	}
	rootStat, ok := info.Sys().(*unix.Stat_t)
	if !ok {
		return accounterr.New(accounterr.HomeDirDelete, "cannot determine device for home directory")
	}
	if err := deleteTree(home, rootStat.Dev); err != nil {
		return err
	}
	if err := os.Remove(home); err != nil && !os.IsNotExist(err) {
		return accounterr.Wrap(accounterr.HomeDirDelete, err)
	}
	return nil
}

func deleteTree(dir string, rootDev uint64) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return accounterr.Wrap(accounterr.HomeDirDelete, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return accounterr.Wrap(accounterr.HomeDirDelete, err)
		}
		if stat, ok := info.Sys().(*unix.Stat_t); ok && uint64(stat.Dev) != rootDev {
			return accounterr.Newf(accounterr.HomeDirDelete, "refusing to cross mount point at %s", path)
		}
		if info.IsDir() {
			if err := deleteTree(path, rootDev); err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return accounterr.Wrap(accounterr.HomeDirDelete, err)
			}
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return accounterr.Wrap(accounterr.HomeDirDelete, err)
		}
	}
	return nil
}
