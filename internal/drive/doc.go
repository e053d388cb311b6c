// Package drive uploads local plain-text files to Google Drive.
//
// OAuth Authentication:
// The caller supplies an *http.Client carrying a credential with the full
// Drive scope. Files are created with a multipart upload and the MIME type
// is always text/plain.
//
// Example usage:
//
//	client, err := drive.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//	file, err := client.UploadTextFile(ctx, drive.UploadInput{
//	    Path:        "document.txt",
//	    Title:       "My document",
//	    Description: "A test document",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println("File created. File ID: " + file.ID)
package drive
