package epub

// mimetypeContent is the exact byte content of the mimetype marker entry.
// Reading systems match it byte for byte, so no trailing newline.
const mimetypeContent = "application/epub+zip"

// containerXML points reading systems at the package document.
const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>
`
