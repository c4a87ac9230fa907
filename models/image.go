package models

// UploadedImage is one file received from the user for a single interaction.
type UploadedImage struct {
	Filename string
	MIMEType string
	Data     []byte
}

// ImageAnalysis is the context text the vision model produced for one image.
// Number is 1-based and follows upload order.
type ImageAnalysis struct {
	Number   int    `json:"number"`
	Filename string `json:"filename"`
	Context  string `json:"context"`
}
