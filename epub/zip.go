package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// writeArchive packs the staged tree at root into an EPUB container at
// outputPath. The mimetype marker is written first and stored uncompressed,
// as required for reading systems to sniff the container; every other entry
// is deflated.
func writeArchive(outputPath, root string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("epub: create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	mt, err := os.ReadFile(filepath.Join(root, "mimetype"))
	if err != nil {
		return fmt.Errorf("epub: mimetype marker: %w", err)
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("epub: mimetype entry: %w", err)
	}
	if _, err := w.Write(mt); err != nil {
		return fmt.Errorf("epub: mimetype entry: %w", err)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == "mimetype" {
			return nil
		}

		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("epub: archiving: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("epub: finalize archive: %w", err)
	}
	return nil
}
