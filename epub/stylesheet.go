package epub

// stylesheet is shared by every page document. Frames are positioned
// absolutely within the page canvas; graphics sit behind text.
const stylesheet = `@page {
  margin: 0;
}

body {
  margin: 0;
  padding: 0;
}

.page {
  position: relative;
  overflow: hidden;
}

.Basic-Graphics-Frame {
  position: absolute;
  z-index: 1;
}

.Basic-Graphics-Frame img {
  width: 100%;
  height: 100%;
}

.Basic-Text-Frame {
  position: absolute;
  z-index: 2;
}

.Basic-Text-Frame p {
  margin: 0;
  padding: 0;
  white-space: pre-wrap;
}
`
